package types

import (
	"fmt"
	"strings"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	// FuncNameMaxLen is the longest init or receive name.
	FuncNameMaxLen = 100
	// ContractNameMaxLen leaves room for the "init_" prefix.
	ContractNameMaxLen = FuncNameMaxLen - 5
	// EntrypointNameMaxLen leaves room for the "." separator.
	EntrypointNameMaxLen = FuncNameMaxLen - 1

	initPrefix       = "init_"
	receiveSeparator = "."
	nameLengthPrefix = serial.Width16

	// ParameterMaxSize is the largest contract parameter in bytes.
	ParameterMaxSize = 65535
)

// ContractAddress locates a smart contract instance.
type ContractAddress struct {
	Index    uint64 `json:"index"`
	Subindex uint64 `json:"subindex"`
}

func (a ContractAddress) String() string {
	return fmt.Sprintf("<%d,%d>", a.Index, a.Subindex)
}

func (a ContractAddress) SerializeInto(buf *serial.Buffer) int {
	return buf.PutUint64(a.Index) + buf.PutUint64(a.Subindex)
}

func ReadContractAddress(c *serial.Cursor) fn.Option[ContractAddress] {
	mark := c.Offset()
	index, ok := serial.Get(c.Uint64())
	if !ok {
		return fn.None[ContractAddress]()
	}
	subindex, ok := serial.Get(c.Uint64())
	if !ok {
		c.Seek(mark)
		return fn.None[ContractAddress]()
	}
	return fn.Some(ContractAddress{index, subindex})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

// ContractName is the name of a contract, which prefixes its receive
// functions.
type ContractName string

// NewContractName validates name.
func NewContractName(name string) (ContractName, error) {
	if len(name) > ContractNameMaxLen {
		return "", &NameError{"contract name", name, fmt.Sprintf(
			"must be at most %d characters long", ContractNameMaxLen,
		)}
	}
	if strings.Contains(name, receiveSeparator) {
		return "", &NameError{"contract name", name, "must not contain '.'"}
	}
	if !isASCII(name) {
		return "", &NameError{"contract name", name, "must be ASCII"}
	}
	return ContractName(name), nil
}

// ContractNameUnchecked skips validation.
func ContractNameUnchecked(name string) ContractName {
	return ContractName(name)
}

// InitName returns the init function name of the contract.
func (n ContractName) InitName() (InitName, error) {
	return NewInitName(initPrefix + string(n))
}

// ReceiveName returns the receive name of an entrypoint of the contract.
func (n ContractName) ReceiveName(ep EntrypointName) (ReceiveName, error) {
	return ReceiveNameFromParts(n, ep)
}

func (n ContractName) String() string {
	return string(n)
}

func (n ContractName) SerializeInto(buf *serial.Buffer) int {
	return buf.PutString(nameLengthPrefix, string(n))
}

func ReadContractName(c *serial.Cursor) fn.Option[ContractName] {
	return readName(c, NewContractName)
}

// EntrypointName is the name of a receive function without the contract
// prefix.
type EntrypointName string

// NewEntrypointName validates name.
func NewEntrypointName(name string) (EntrypointName, error) {
	if len(name) > EntrypointNameMaxLen {
		return "", &NameError{"entrypoint name", name, fmt.Sprintf(
			"must be at most %d characters long", EntrypointNameMaxLen,
		)}
	}
	if !isASCII(name) {
		return "", &NameError{"entrypoint name", name, "must be ASCII"}
	}
	return EntrypointName(name), nil
}

// EntrypointNameUnchecked skips validation.
func EntrypointNameUnchecked(name string) EntrypointName {
	return EntrypointName(name)
}

func (n EntrypointName) String() string {
	return string(n)
}

func (n EntrypointName) SerializeInto(buf *serial.Buffer) int {
	return buf.PutString(nameLengthPrefix, string(n))
}

func ReadEntrypointName(c *serial.Cursor) fn.Option[EntrypointName] {
	return readName(c, NewEntrypointName)
}

// InitName is the name of a contract's init function, "init_<contract>".
type InitName string

// NewInitName validates name.
func NewInitName(name string) (InitName, error) {
	if len(name) > FuncNameMaxLen {
		return "", &NameError{"init name", name, fmt.Sprintf(
			"must be at most %d characters long", FuncNameMaxLen,
		)}
	}
	if !strings.HasPrefix(name, initPrefix) {
		return "", &NameError{"init name", name, "must start with 'init_'"}
	}
	if strings.Contains(name, receiveSeparator) {
		return "", &NameError{"init name", name, "must not contain '.'"}
	}
	if !isASCII(name) {
		return "", &NameError{"init name", name, "must be ASCII"}
	}
	return InitName(name), nil
}

// InitNameUnchecked skips validation.
func InitNameUnchecked(name string) InitName {
	return InitName(name)
}

// ContractName strips the "init_" prefix.
func (n InitName) ContractName() ContractName {
	return ContractName(strings.TrimPrefix(string(n), initPrefix))
}

func (n InitName) String() string {
	return string(n)
}

func (n InitName) SerializeInto(buf *serial.Buffer) int {
	return buf.PutString(nameLengthPrefix, string(n))
}

func ReadInitName(c *serial.Cursor) fn.Option[InitName] {
	return readName(c, NewInitName)
}

// ReceiveName is "<contract>.<entrypoint>".
type ReceiveName string

// NewReceiveName validates name.
func NewReceiveName(name string) (ReceiveName, error) {
	if len(name) > FuncNameMaxLen {
		return "", &NameError{"receive name", name, fmt.Sprintf(
			"must be at most %d characters long", FuncNameMaxLen,
		)}
	}
	if !strings.Contains(name, receiveSeparator) {
		return "", &NameError{"receive name", name, "must contain '.'"}
	}
	if !isASCII(name) {
		return "", &NameError{"receive name", name, "must be ASCII"}
	}
	return ReceiveName(name), nil
}

// ReceiveNameUnchecked skips validation.
func ReceiveNameUnchecked(name string) ReceiveName {
	return ReceiveName(name)
}

// ReceiveNameFromParts joins a contract name and an entrypoint.
func ReceiveNameFromParts(contract ContractName, ep EntrypointName) (ReceiveName, error) {
	return NewReceiveName(string(contract) + receiveSeparator + string(ep))
}

// ContractName returns the part before the first ".".
func (n ReceiveName) ContractName() ContractName {
	contract, _, _ := strings.Cut(string(n), receiveSeparator)
	return ContractName(contract)
}

// Entrypoint returns the part after the first ".".
func (n ReceiveName) Entrypoint() EntrypointName {
	_, ep, _ := strings.Cut(string(n), receiveSeparator)
	return EntrypointName(ep)
}

func (n ReceiveName) String() string {
	return string(n)
}

func (n ReceiveName) SerializeInto(buf *serial.Buffer) int {
	return buf.PutString(nameLengthPrefix, string(n))
}

func ReadReceiveName(c *serial.Cursor) fn.Option[ReceiveName] {
	return readName(c, NewReceiveName)
}

func readName[T ~string](c *serial.Cursor, parse func(string) (T, error)) fn.Option[T] {
	mark := c.Offset()
	s, ok := serial.Get(c.String(nameLengthPrefix))
	if !ok {
		return fn.None[T]()
	}
	name, err := parse(s)
	if err != nil {
		c.Seek(mark)
		return fn.None[T]()
	}
	return fn.Some(name)
}

// Parameter is the serialized argument of a contract invocation.
type Parameter []byte

// NewParameter validates the size of b.
func NewParameter(b []byte) (Parameter, error) {
	if len(b) > ParameterMaxSize {
		return nil, &SizeError{"parameter", ParameterMaxSize, len(b)}
	}
	return Parameter(b), nil
}

// ParameterUnchecked skips validation.
func ParameterUnchecked(b []byte) Parameter {
	return Parameter(b)
}

// ParameterFrom serializes v into a parameter.
func ParameterFrom(v serial.Serializer) (Parameter, error) {
	return NewParameter(serial.Serialize(v))
}

func (p Parameter) String() string {
	return encodeHex(p)
}

func (p Parameter) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Parameter) UnmarshalText(text []byte) error {
	b, err := decodeHex(string(text))
	if err != nil {
		return err
	}
	parsed, err := NewParameter(b)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func (p Parameter) SerializeInto(buf *serial.Buffer) int {
	return buf.PutPrefixedBytes(serial.Width16, p)
}

func ReadParameter(c *serial.Cursor) fn.Option[Parameter] {
	return fn.MapOption(func(b []byte) Parameter {
		return Parameter(b)
	})(c.PrefixedBytes(serial.Width16))
}
