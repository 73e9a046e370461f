// Package reduceop implements the element-wise fold used by the
// reduction collective. Operands are unsigned bytes; SUM and PROD wrap
// modulo 256, matching plain uint8 arithmetic overflow.
package reduceop

import "fmt"

// Op names one of the four fixed, associative and commutative
// reduction operators the reduce collective supports.
type Op int

const (
	Min Op = iota
	Max
	Sum
	Prod
)

func (o Op) String() string {
	switch o {
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case Sum:
		return "SUM"
	case Prod:
		return "PROD"
	default:
		return "UNKNOWN"
	}
}

// Reducer folds two same-length byte slices into a newly allocated
// result of the same length.
type Reducer func(a, b []byte) []byte

// For returns the Reducer implementing op.
func For(op Op) (Reducer, error) {
	switch op {
	case Min:
		return reduce(func(a, b byte) byte {
			if a < b {
				return a
			}
			return b
		}), nil
	case Max:
		return reduce(func(a, b byte) byte {
			if a > b {
				return a
			}
			return b
		}), nil
	case Sum:
		return reduce(func(a, b byte) byte { return a + b }), nil
	case Prod:
		return reduce(func(a, b byte) byte { return a * b }), nil
	default:
		return nil, fmt.Errorf("reduceop: unknown operator %d", op)
	}
}

func reduce(f func(a, b byte) byte) Reducer {
	return func(a, b []byte) []byte {
		out := make([]byte, len(a))
		for i := range a {
			out[i] = f(a[i], b[i])
		}
		return out
	}
}
