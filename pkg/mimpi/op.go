package mimpi

import "github.com/gomimpi/mimpi/internal/reduceop"

// Op selects the element-wise fold Reduce applies. Operands are
// unsigned bytes; Sum and Prod wrap modulo 256.
type Op = reduceop.Op

const (
	Min  = reduceop.Min
	Max  = reduceop.Max
	Sum  = reduceop.Sum
	Prod = reduceop.Prod
)
