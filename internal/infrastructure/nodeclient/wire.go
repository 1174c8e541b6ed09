package nodeclient

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

func appendBytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// appendWrapped appends a message field holding a single varint at field 1,
// which is how the node wraps every scalar.
func appendWrapped(b []byte, num protowire.Number, v uint64) []byte {
	return appendBytesField(b, num, appendVarintField(nil, 1, v))
}

// appendWrappedBytes is appendWrapped for a bytes value.
func appendWrappedBytes(b []byte, num protowire.Number, v []byte) []byte {
	return appendBytesField(b, num, appendBytesField(nil, 1, v))
}

// appendMapEntry appends one entry of a map<uint32, message> field.
func appendMapEntry(b []byte, num protowire.Number, key uint32, value []byte) []byte {
	entry := protowire.AppendTag(nil, 1, protowire.VarintType)
	entry = protowire.AppendVarint(entry, uint64(key))
	entry = appendBytesField(entry, 2, value)
	return appendBytesField(b, num, entry)
}

type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

// walk calls fn for every varint and length-delimited field of b. Fields of
// any other wire type are skipped.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrMalformedMessage, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %s", ErrMalformedMessage, protowire.ParseError(n))
		}
		b = b[n:]

		if typ != protowire.VarintType && typ != protowire.BytesType {
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// unwrap reads the varint at field 1 of a wrapper message.
func unwrap(b []byte) (uint64, error) {
	var v uint64
	err := walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.VarintType {
			v = f.varint
		}
		return nil
	})
	return v, err
}

// unwrapBytes reads the bytes at field 1 of a wrapper message.
func unwrapBytes(b []byte) ([]byte, error) {
	var v []byte
	err := walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			v = f.bytes
		}
		return nil
	})
	return v, err
}

// unwrapFixed is unwrapBytes for values of a known size.
func unwrapFixed(b []byte, dst []byte, name string) error {
	v, err := unwrapBytes(b)
	if err != nil {
		return err
	}
	if len(v) != len(dst) {
		return fmt.Errorf(
			"%w: %s must be %d bytes, got %d", ErrMalformedMessage, name, len(dst), len(v),
		)
	}
	copy(dst, v)
	return nil
}

// mapEntry reads one entry of a map<uint32, message> field.
func mapEntry(b []byte) (uint32, []byte, error) {
	var (
		key   uint64
		value []byte
	)
	err := walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.typ == protowire.VarintType:
			key = f.varint
		case f.num == 2 && f.typ == protowire.BytesType:
			value = f.bytes
		}
		return nil
	})
	return uint32(key), value, err
}
