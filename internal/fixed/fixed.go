// Package fixed implements Q4.28 signed fixed-point arithmetic: the
// numeric format the decoder uses from Huffman requantization through
// the polyphase synthesis filter.
//
// A Fixed value is a plain int32 interpreted as 1 sign bit, 3 integer
// bits and 28 fractional bits, giving a range of [-8, +8) with about
// 8.4 decimal digits of fractional precision.
package fixed

// Fixed is a Q4.28 fixed-point sample.
type Fixed int32

const fracBits = 28

// Min and Max are the representable extremes of Fixed.
const (
	Min = Fixed(-1 << 31)
	Max = Fixed(1<<31 - 1)
	One = Fixed(1 << fracBits)
)

// Mode selects the accuracy/performance tradeoff used by Mul.
type Mode int

const (
	// ModeApprox drops the low 14 bits of each operand before
	// multiplying. Fast, portable, loses about 14 bits of accuracy.
	ModeApprox Mode = iota
	// Mode64 computes the full 64-bit product and truncates the
	// shift back to 28 fractional bits.
	Mode64
	// Mode64Round is Mode64 with round-to-nearest on the final shift.
	Mode64Round
)

// DefaultMode is the accuracy mode used by package-level Mul. The
// driver can repoint this at startup; all higher layers must produce
// identical control flow under any mode, only sample values drift
// within the documented accuracy bound.
var DefaultMode = Mode64Round

func FromInt(n int) Fixed { return Fixed(n) << fracBits }

func Abs(x Fixed) Fixed {
	if x < 0 {
		return -x
	}
	return x
}

// IntPart returns the integer part of x, sign-extended.
func IntPart(x Fixed) int { return int(x) >> fracBits }

// FracPart returns the fractional part of x as a non-negative Fixed.
func FracPart(x Fixed) Fixed { return x & (1<<fracBits - 1) }

func Add(x, y Fixed) Fixed { return x + y }
func Sub(x, y Fixed) Fixed { return x - y }

// Mul multiplies two Q4.28 operands under DefaultMode.
func Mul(x, y Fixed) Fixed { return MulMode(x, y, DefaultMode) }

// MulMode multiplies under an explicit accuracy mode.
func MulMode(x, y Fixed, mode Mode) Fixed {
	switch mode {
	case ModeApprox:
		const round = 0x2000
		a := (x + round) >> 14
		b := (y + round) >> 14
		return a * b
	case Mode64Round:
		p := int64(x)*int64(y) + (1 << (fracBits - 1))
		return Fixed(p >> fracBits)
	default: // Mode64
		p := int64(x) * int64(y)
		return Fixed(p >> fracBits)
	}
}

// Accum is a multiply-accumulate contract: it sums full 64-bit partial
// products and only scales back to Q4.28 once, preserving precision
// across a chain of products (the synthesis filter's inner loops).
type Accum struct {
	sum int64
}

func (a *Accum) MulAcc(x, y Fixed) {
	a.sum += int64(x) * int64(y)
}

// Scale shifts the accumulated 64-bit sum back to Q4.28, with
// round-to-nearest when round is true.
func (a *Accum) Scale(round bool) Fixed {
	s := a.sum
	if round {
		s += 1 << (fracBits - 1)
	}
	return Fixed(s >> fracBits)
}

// Saturate clamps x to the representable Q4.28 range. Requantization
// is the only stage in the pipeline that saturates on overflow; every
// other stage relies on the bitstream never producing values outside
// range.
func Saturate(x int64) Fixed {
	if x > int64(Max) {
		return Max
	}
	if x < int64(Min) {
		return Min
	}
	return Fixed(x)
}
