package serial

import "math/big"

// ULEB128MaxBytes64 is the longest unsigned LEB128 encoding of a uint64.
const ULEB128MaxBytes64 = 10

// AppendULEB128 appends the unsigned LEB128 encoding of value to dst.
//
// Every byte carries 7 payload bits, least significant group first. The most
// significant bit of a byte is set when more bytes follow.
func AppendULEB128(dst []byte, value uint64) []byte {
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if value != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// AppendULEB128Big appends the unsigned LEB128 encoding of a non-negative
// big integer. A nil or negative value encodes as zero.
func AppendULEB128Big(dst []byte, value *big.Int) []byte {
	if value == nil || value.Sign() <= 0 {
		return append(dst, 0)
	}
	v := new(big.Int).Set(value)
	mask := big.NewInt(0x7f)
	group := new(big.Int)
	for {
		group.And(v, mask)
		v.Rsh(v, 7)
		b := byte(group.Uint64())
		if v.Sign() != 0 {
			dst = append(dst, b|0x80)
			continue
		}
		return append(dst, b)
	}
}

// DecodeULEB128 decodes an unsigned LEB128 value from the start of buf and
// returns it with the number of bytes consumed. It returns 0, 0 when buf is
// truncated or the encoding does not fit in 64 bits.
func DecodeULEB128(buf []byte) (uint64, int) {
	var (
		result uint64
		shift  uint
	)
	for i, b := range buf {
		if i >= ULEB128MaxBytes64 {
			return 0, 0
		}
		payload := uint64(b & 0x7f)
		if i == ULEB128MaxBytes64-1 && payload > 1 {
			return 0, 0
		}
		result |= payload << shift
		if b&0x80 == 0 {
			return result, i + 1
		}
		shift += 7
	}
	return 0, 0
}

// DecodeULEB128Big decodes an arbitrarily large unsigned LEB128 value spanning
// at most maxBytes bytes. It returns nil, 0 when buf is truncated or the
// encoding is longer than maxBytes.
func DecodeULEB128Big(buf []byte, maxBytes int) (*big.Int, int) {
	result := new(big.Int)
	group := new(big.Int)
	for i, b := range buf {
		if i >= maxBytes {
			return nil, 0
		}
		group.SetUint64(uint64(b & 0x7f))
		group.Lsh(group, uint(7*i))
		result.Or(result, group)
		if b&0x80 == 0 {
			return result, i + 1
		}
	}
	return nil, 0
}
