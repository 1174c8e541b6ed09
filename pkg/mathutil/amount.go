package mathutil

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/shopspring/decimal"
)

// CCDDecimals is the number of decimals between CCD and microCCD.
const CCDDecimals = 6

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be a non negative decimal number")
	// ErrTooManyDecimals ...
	ErrTooManyDecimals = errors.New("amount has more decimals than allowed")
	// ErrAmountOverflow ...
	ErrAmountOverflow = errors.New("amount does not fit in 64 bits")

	maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(1<<64-1), 0)
)

// ParseCCD converts a CCD amount such as "12.5" into microCCD.
func ParseCCD(s string) (types.MicroCCDAmount, error) {
	units, err := ParseUnits(s, CCDDecimals)
	if err != nil {
		return 0, err
	}
	if !units.IsUint64() {
		return 0, ErrAmountOverflow
	}
	return types.MicroCCDAmount(units.Uint64()), nil
}

// FormatCCD renders microCCD as CCD with all six decimals.
func FormatCCD(amount types.MicroCCDAmount) string {
	return FormatUnits(new(big.Int).SetUint64(uint64(amount)), CCDDecimals)
}

// ParseUnits converts a decimal string into an integer number of the
// smallest unit of a currency with the given decimals. Token amounts are not
// bounded, callers check the range they need.
func ParseUnits(s string, decimals int32) (*big.Int, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil || strings.ContainsAny(s, "eE") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.Exponent() < -decimals {
		return nil, fmt.Errorf("%w: %q has at most %d", ErrTooManyDecimals, s, decimals)
	}
	return d.Shift(decimals).BigInt(), nil
}

// FormatUnits is the inverse of ParseUnits. It always prints the given
// number of decimals.
func FormatUnits(units *big.Int, decimals int32) string {
	if units == nil {
		units = new(big.Int)
	}
	return decimal.NewFromBigInt(units, -decimals).StringFixed(decimals)
}

// FitsUint64 reports whether a decimal number of units can be held in a
// uint64.
func FitsUint64(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(maxUint64)
}
