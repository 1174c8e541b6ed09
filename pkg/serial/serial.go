package serial

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/lightningnetwork/lnd/fn/v2"
)

var (
	// ErrInsufficientData ...
	ErrInsufficientData = errors.New("insufficient data")
	// ErrTrailingData ...
	ErrTrailingData = errors.New("unexpected trailing data")
)

// DecodeError reports a failed decode of the named type at a byte offset.
type DecodeError struct {
	Type   string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(
		"failed to deserialize %s at offset %d: %s", e.Type, e.Offset, e.Err,
	)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Serializer is implemented by every value with a canonical wire encoding.
type Serializer interface {
	SerializeInto(buf *Buffer) int
}

// Decoder reads a value of type T from a cursor, returning fn.None when the
// bytes at the cursor do not hold one.
type Decoder[T any] func(c *Cursor) fn.Option[T]

// Serialize returns the wire encoding of v.
func Serialize(v Serializer) []byte {
	buf := NewBuffer()
	v.SerializeInto(buf)
	return buf.Bytes()
}

// Deserialize decodes a value that must span the whole of data.
func Deserialize[T any](data []byte, typeName string, decode Decoder[T]) (T, error) {
	c := NewCursor(data)
	v, ok := Get(decode(c))
	if !ok {
		var zero T
		return zero, &DecodeError{typeName, c.Offset(), ErrInsufficientData}
	}
	if !c.Empty() {
		var zero T
		return zero, &DecodeError{typeName, c.Offset(), ErrTrailingData}
	}
	return v, nil
}

// Get unpacks an option into the Go comma-ok form.
func Get[T any](o fn.Option[T]) (T, bool) {
	if o.IsNone() {
		var zero T
		return zero, false
	}
	return o.UnsafeFromSome(), true
}

// ReadValid decodes a value and rewinds the cursor when valid rejects it.
func ReadValid[T any](c *Cursor, decode Decoder[T], valid func(T) bool) fn.Option[T] {
	mark := c.offset
	v, ok := Get(decode(c))
	if !ok {
		return fn.None[T]()
	}
	if !valid(v) {
		c.offset = mark
		return fn.None[T]()
	}
	return fn.Some(v)
}

// PutList writes the element count with the given width followed by the
// encoding of every element.
func PutList[T Serializer](buf *Buffer, w Width, items []T) int {
	n := buf.PutLength(w, uint64(len(items)))
	for _, item := range items {
		n += item.SerializeInto(buf)
	}
	return n
}

// PutListLE is PutList with a little-endian count.
func PutListLE[T Serializer](buf *Buffer, w Width, items []T) int {
	n := buf.PutLengthLE(w, uint64(len(items)))
	for _, item := range items {
		n += item.SerializeInto(buf)
	}
	return n
}

// ReadList reads a count with the given width followed by exactly that many
// elements. The cursor is rewound if any element is missing.
func ReadList[T any](c *Cursor, w Width, decode Decoder[T]) fn.Option[[]T] {
	mark := c.offset
	count, ok := Get(c.Length(w))
	if !ok {
		return fn.None[[]T]()
	}
	return readElems(c, mark, count, decode)
}

// ReadListLE is ReadList with a little-endian count.
func ReadListLE[T any](c *Cursor, w Width, decode Decoder[T]) fn.Option[[]T] {
	mark := c.offset
	count, ok := Get(c.LengthLE(w))
	if !ok {
		return fn.None[[]T]()
	}
	return readElems(c, mark, count, decode)
}

func readElems[T any](c *Cursor, mark int, count uint64, decode Decoder[T]) fn.Option[[]T] {
	items := make([]T, 0, min(count, uint64(c.Remaining())))
	for i := uint64(0); i < count; i++ {
		item, ok := Get(decode(c))
		if !ok {
			c.offset = mark
			return fn.None[[]T]()
		}
		items = append(items, item)
	}
	return fn.Some(items)
}

// PutMap writes the entry count followed by the key/value encodings. Keys are
// written in ascending order.
func PutMap[K cmp.Ordered, V any](
	buf *Buffer, w Width, m map[K]V,
	putKey func(*Buffer, K) int, putValue func(*Buffer, V) int,
) int {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	n := buf.PutLength(w, uint64(len(keys)))
	for _, k := range keys {
		n += putKey(buf, k)
		n += putValue(buf, m[k])
	}
	return n
}

// ReadMap reads a map written by PutMap. Duplicate keys overwrite earlier
// entries.
func ReadMap[K comparable, V any](
	c *Cursor, w Width, readKey Decoder[K], readValue Decoder[V],
) fn.Option[map[K]V] {
	mark := c.offset
	count, ok := Get(c.Length(w))
	if !ok {
		return fn.None[map[K]V]()
	}
	m := make(map[K]V, min(count, uint64(c.Remaining())))
	for i := uint64(0); i < count; i++ {
		k, ok := Get(readKey(c))
		if !ok {
			c.offset = mark
			return fn.None[map[K]V]()
		}
		v, ok := Get(readValue(c))
		if !ok {
			c.offset = mark
			return fn.None[map[K]V]()
		}
		m[k] = v
	}
	return fn.Some(m)
}
