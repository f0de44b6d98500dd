package contract

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// U128 is an unsigned 128-bit counter for vote and deposit accounting. It sits on
// a 256-bit word so products of two U128 never overflow the intermediate.
type U128 struct {
	v uint256.Int
}

// MaxU128 is 2^128-1.
var MaxU128 = U128FromParts(math.MaxUint64, math.MaxUint64)

// U128From64 lifts a transfer amount into accounting space.
func U128From64(x uint64) U128 {
	var out U128
	out.v.SetUint64(x)
	return out
}

// U128FromParts builds hi<<64 | lo.
func U128FromParts(hi, lo uint64) U128 {
	var out U128
	out.v[0] = lo
	out.v[1] = hi
	return out
}

// ParseU128 reads a decimal string and rejects anything past 2^128-1.
// Example payload: ParseU128("340282366920938463463374607431768211455")
func ParseU128(s string) (U128, error) {
	n, err := uint256.FromDecimal(s)
	if err != nil {
		return U128{}, errors.Wrapf(err, "parse %q", s)
	}
	if n.BitLen() > 128 {
		return U128{}, errors.Errorf("%q exceeds 128 bits", s)
	}
	return U128{v: *n}, nil
}

// Add returns a+b and false when the sum passes 2^128-1.
func (a U128) Add(b U128) (U128, bool) {
	var out U128
	out.v.Add(&a.v, &b.v)
	if out.v.BitLen() > 128 {
		return U128{}, false
	}
	return out, true
}

// Sub returns a-b. Callers make sure a >= b.
func (a U128) Sub(b U128) U128 {
	var out U128
	out.v.Sub(&a.v, &b.v)
	return out
}

// MulDiv returns floor(a*b/d), zero when d is zero.
func (a U128) MulDiv(b, d U128) U128 {
	if d.IsZero() {
		return U128{}
	}
	var out U128
	out.v.Mul(&a.v, &b.v)
	out.v.Div(&out.v, &d.v)
	return out
}

func (a U128) Cmp(b U128) int   { return a.v.Cmp(&b.v) }
func (a U128) IsZero() bool     { return a.v.IsZero() }
func (a U128) Hi() uint64       { return a.v[1] }
func (a U128) Lo() uint64       { return a.v[0] }
func (a U128) String() string   { return a.v.Dec() }
func (a U128) Less(b U128) bool { return a.v.Lt(&b.v) }

// Uint64Sat clamps to the largest transferable amount.
func (a U128) Uint64Sat() uint64 {
	if a.v[1] != 0 {
		return math.MaxUint64
	}
	return a.v[0]
}

// Float64 is the nearest double, used by the float payout ratio.
func (a U128) Float64() float64 {
	return float64(a.v[1])*18446744073709551616.0 + float64(a.v[0])
}
