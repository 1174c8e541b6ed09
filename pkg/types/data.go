package types

import (
	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// MemoMaxSize is the largest memo in bytes.
	MemoMaxSize = 256
	// RegisteredDataMaxSize is the largest blob accepted by a register data
	// transaction.
	RegisteredDataMaxSize = 256
)

// Memo is an opaque note attached to a transfer.
type Memo []byte

// NewMemo validates the size of b.
func NewMemo(b []byte) (Memo, error) {
	if len(b) > MemoMaxSize {
		return nil, &SizeError{"memo", MemoMaxSize, len(b)}
	}
	return Memo(b), nil
}

// MemoUnchecked skips validation.
func MemoUnchecked(b []byte) Memo {
	return Memo(b)
}

func (m Memo) String() string {
	return encodeHex(m)
}

func (m Memo) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Memo) UnmarshalText(text []byte) error {
	b, err := decodeHex(string(text))
	if err != nil {
		return err
	}
	parsed, err := NewMemo(b)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m Memo) SerializeInto(buf *serial.Buffer) int {
	return buf.PutPrefixedBytes(serial.Width16, m)
}

func ReadMemo(c *serial.Cursor) fn.Option[Memo] {
	return serial.ReadValid(c, func(c *serial.Cursor) fn.Option[Memo] {
		return fn.MapOption(func(b []byte) Memo {
			return Memo(b)
		})(c.PrefixedBytes(serial.Width16))
	}, func(m Memo) bool {
		return len(m) <= MemoMaxSize
	})
}

// RegisteredData is an opaque blob stored on chain.
type RegisteredData []byte

// NewRegisteredData validates the size of b.
func NewRegisteredData(b []byte) (RegisteredData, error) {
	if len(b) > RegisteredDataMaxSize {
		return nil, &SizeError{"registered data", RegisteredDataMaxSize, len(b)}
	}
	return RegisteredData(b), nil
}

// RegisteredDataUnchecked skips validation.
func RegisteredDataUnchecked(b []byte) RegisteredData {
	return RegisteredData(b)
}

func (d RegisteredData) String() string {
	return encodeHex(d)
}

func (d RegisteredData) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *RegisteredData) UnmarshalText(text []byte) error {
	b, err := decodeHex(string(text))
	if err != nil {
		return err
	}
	parsed, err := NewRegisteredData(b)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d RegisteredData) SerializeInto(buf *serial.Buffer) int {
	return buf.PutPrefixedBytes(serial.Width16, d)
}

// ReadRegisteredData rejects blobs longer than RegisteredDataMaxSize, which
// the chain would refuse.
func ReadRegisteredData(c *serial.Cursor) fn.Option[RegisteredData] {
	return serial.ReadValid(c, func(c *serial.Cursor) fn.Option[RegisteredData] {
		return fn.MapOption(func(b []byte) RegisteredData {
			return RegisteredData(b)
		})(c.PrefixedBytes(serial.Width16))
	}, func(d RegisteredData) bool {
		return len(d) <= RegisteredDataMaxSize
	})
}
