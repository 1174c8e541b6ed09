package serial

import (
	"errors"
	"math/big"
	"testing"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type word uint16

func (w word) SerializeInto(buf *Buffer) int {
	return buf.PutUint16(uint16(w))
}

func readWord(c *Cursor) fn.Option[word] {
	return fn.MapOption(func(v uint16) word { return word(v) })(c.Uint16())
}

func TestBufferEncoding(t *testing.T) {
	tests := []struct {
		name     string
		write    func(*Buffer) int
		expected []byte
	}{
		{
			name:     "uint16 big-endian",
			write:    func(b *Buffer) int { return b.PutUint16(0x0102) },
			expected: []byte{1, 2},
		},
		{
			name:     "uint64 big-endian",
			write:    func(b *Buffer) int { return b.PutUint64(100) },
			expected: []byte{0, 0, 0, 0, 0, 0, 0, 100},
		},
		{
			name:     "uint32 little-endian",
			write:    func(b *Buffer) int { return b.PutUint32LE(0x01020304) },
			expected: []byte{4, 3, 2, 1},
		},
		{
			name:     "u16 prefixed bytes",
			write:    func(b *Buffer) int { return b.PutPrefixedBytes(Width16, []byte{23, 55}) },
			expected: []byte{0, 2, 23, 55},
		},
		{
			name:     "u16 le prefixed string",
			write:    func(b *Buffer) int { return b.PutStringLE(Width16, "ab") },
			expected: []byte{2, 0, 'a', 'b'},
		},
		{
			name:     "bool",
			write:    func(b *Buffer) int { return b.PutBool(true) + b.PutBool(false) },
			expected: []byte{1, 0},
		},
		{
			name:     "uleb128 zero",
			write:    func(b *Buffer) int { return b.PutULEB128(0) },
			expected: []byte{0},
		},
		{
			name:     "uleb128 multi byte",
			write:    func(b *Buffer) int { return b.PutULEB128(624485) },
			expected: []byte{0xe5, 0x8e, 0x26},
		},
		{
			name:     "list of words",
			write:    func(b *Buffer) int { return PutList(b, Width8, []word{1, 2}) },
			expected: []byte{2, 0, 1, 0, 2},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer()
			n := tt.write(buf)
			assert.Equal(t, tt.expected, buf.Bytes())
			assert.Equal(t, len(tt.expected), n)
		})
	}
}

func TestCursor(t *testing.T) {
	t.Run("failed reads do not advance", testFailedReadsDoNotAdvance())
	t.Run("prefixed bytes", testPrefixedBytes())
	t.Run("bool rejects non binary byte", testBoolRejects())
	t.Run("read copies", testReadCopies())
}

func testFailedReadsDoNotAdvance() func(*testing.T) {
	return func(t *testing.T) {
		c := NewCursor([]byte{0, 5, 1, 2})

		_, ok := Get(c.Uint64())
		require.False(t, ok)
		require.Equal(t, 0, c.Offset())

		// Prefix declares 5 bytes, only 2 remain.
		_, ok = Get(c.PrefixedBytes(Width16))
		require.False(t, ok)
		require.Equal(t, 0, c.Offset())

		_, ok = Get(ReadList(c, Width16, readWord))
		require.False(t, ok)
		require.Equal(t, 0, c.Offset())

		v, ok := Get(c.Uint16())
		require.True(t, ok)
		require.Equal(t, uint16(5), v)
		require.Equal(t, 2, c.Remaining())
	}
}

func testPrefixedBytes() func(*testing.T) {
	return func(t *testing.T) {
		c := NewCursor([]byte{0, 3, 'a', 'b', 'c', 9})

		s, ok := Get(c.String(Width16))
		require.True(t, ok)
		require.Equal(t, "abc", s)
		require.Equal(t, []byte{9}, c.Rest())
		require.True(t, c.Empty())
	}
}

func testBoolRejects() func(*testing.T) {
	return func(t *testing.T) {
		c := NewCursor([]byte{2})
		_, ok := Get(c.Bool())
		require.False(t, ok)
		require.Equal(t, 1, c.Remaining())
	}
}

func testReadCopies() func(*testing.T) {
	return func(t *testing.T) {
		data := []byte{1, 2, 3}
		out, ok := Get(NewCursor(data).Read(3))
		require.True(t, ok)
		out[0] = 42
		require.Equal(t, byte(1), data[0])
	}
}

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		expectedErr error
	}{
		{
			name: "exact",
			data: []byte{0, 7},
		},
		{
			name:        "truncated",
			data:        []byte{0},
			expectedErr: ErrInsufficientData,
		},
		{
			name:        "trailing",
			data:        []byte{0, 7, 1},
			expectedErr: ErrTrailingData,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			w, err := Deserialize(tt.data, "word", readWord)
			if tt.expectedErr == nil {
				require.NoError(t, err)
				require.Equal(t, word(7), w)
				return
			}
			require.ErrorIs(t, err, tt.expectedErr)

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			require.Equal(t, "word", decodeErr.Type)
		})
	}
}

func TestDecodeULEB128Overflow(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "truncated",
			data: []byte{0x80, 0x80},
		},
		{
			name: "eleven bytes",
			data: []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00},
		},
		{
			name: "tenth byte too large",
			data: []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, n := DecodeULEB128(tt.data)
			require.Zero(t, n)
		})
	}

	top := AppendULEB128(nil, 1<<64-1)
	require.Len(t, top, ULEB128MaxBytes64)
	v, n := DecodeULEB128(top)
	require.Equal(t, ULEB128MaxBytes64, n)
	require.Equal(t, uint64(1<<64-1), v)
}

func TestULEB128RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "value")
		buf := NewBuffer()
		buf.PutULEB128(v)

		c := NewCursor(buf.Bytes())
		got, ok := Get(c.ULEB128())
		if !ok || got != v || !c.Empty() {
			t.Fatalf("round trip of %d failed: got %d (%v)", v, got, ok)
		}
	})
}

func TestULEB128BigRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), 0, 32).Draw(t, "bytes")
		v := new(big.Int).SetBytes(raw)

		enc := AppendULEB128Big(nil, v)
		got, n := DecodeULEB128Big(enc, 37)
		if n != len(enc) || got.Cmp(v) != 0 {
			t.Fatalf("round trip of %s failed: got %v", v, got)
		}

		// Values that fit in 64 bits encode identically on both paths.
		if v.IsUint64() {
			small := AppendULEB128(nil, v.Uint64())
			if string(small) != string(enc) {
				t.Fatalf("encodings differ for %s", v)
			}
		}
	})
}

func TestListRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Uint16(), 0, 255).Draw(t, "items")
		items := make([]word, len(raw))
		for i, v := range raw {
			items[i] = word(v)
		}

		buf := NewBuffer()
		PutListLE(buf, Width16, items)

		got, err := Deserialize(buf.Bytes(), "list", func(c *Cursor) fn.Option[[]word] {
			return ReadListLE(c, Width16, readWord)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(items) {
			t.Fatalf("expected %d items, got %d", len(items), len(got))
		}
		for i := range items {
			if got[i] != items[i] {
				t.Fatalf("item %d: expected %d, got %d", i, items[i], got[i])
			}
		}

		// Dropping any suffix makes the list unreadable.
		if len(items) > 0 {
			cut := rapid.IntRange(0, buf.Len()-1).Draw(t, "cut")
			c := NewCursor(buf.Bytes()[:cut])
			if _, ok := Get(ReadListLE(c, Width16, readWord)); ok {
				t.Fatalf("truncated list at %d decoded", cut)
			}
			if c.Offset() != 0 {
				t.Fatalf("cursor advanced to %d", c.Offset())
			}
		}
	})
}

func TestMapRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := rapid.MapOfN(rapid.Uint8(), rapid.Uint64(), 0, 20).Draw(t, "map")

		buf := NewBuffer()
		PutMap(buf, Width8, m,
			func(b *Buffer, k uint8) int { return b.PutUint8(k) },
			func(b *Buffer, v uint64) int { return b.PutUint64(v) },
		)

		got, err := Deserialize(buf.Bytes(), "map", func(c *Cursor) fn.Option[map[uint8]uint64] {
			return ReadMap(c, Width8, (*Cursor).Uint8, (*Cursor).Uint64)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != len(m) {
			t.Fatalf("expected %d entries, got %d", len(m), len(got))
		}
		for k, v := range m {
			if got[k] != v {
				t.Fatalf("key %d: expected %d, got %d", k, v, got[k])
			}
		}
	})
}

func TestReadMapDuplicateKeys(t *testing.T) {
	data := []byte{2, 1, 10, 1, 20}
	got, err := Deserialize(data, "map", func(c *Cursor) fn.Option[map[uint8]uint8] {
		return ReadMap(c, Width8, (*Cursor).Uint8, (*Cursor).Uint8)
	})
	require.NoError(t, err)
	require.Equal(t, map[uint8]uint8{1: 20}, got)
}
