package types

import (
	"crypto/sha256"
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// WasmVersion is the smart contract API version of a module.
type WasmVersion uint32

const (
	WasmV0 WasmVersion = iota
	WasmV1
)

func (v WasmVersion) String() string {
	switch v {
	case WasmV0:
		return "V0"
	case WasmV1:
		return "V1"
	default:
		return fmt.Sprintf("WasmVersion(%d)", uint32(v))
	}
}

// WasmModule is a versioned smart contract module source.
type WasmModule struct {
	Version WasmVersion
	Source  []byte
}

// Reference returns the module reference the chain assigns to m.
func (m WasmModule) Reference() ModuleReference {
	return ModuleReference(sha256.Sum256(serial.Serialize(m)))
}

func (m WasmModule) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint32(uint32(m.Version)) +
		buf.PutPrefixedBytes(serial.Width32, m.Source)
}

func ReadWasmModule(c *serial.Cursor) fn.Option[WasmModule] {
	mark := c.Offset()
	version, ok := serial.Get(c.Uint32())
	if !ok || WasmVersion(version) > WasmV1 {
		c.Seek(mark)
		return fn.None[WasmModule]()
	}
	source, ok := serial.Get(c.PrefixedBytes(serial.Width32))
	if !ok {
		c.Seek(mark)
		return fn.None[WasmModule]()
	}
	return fn.Some(WasmModule{WasmVersion(version), source})
}
