package types

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrInvalidState     = errors.New("invalid state")
	ErrUnsupportedOrder = errors.New("unsupported polynomial order")
)

// FatalError marks configuration-class failures that callers must not try to
// continue past. The operator matrices depend on the order, so nothing downstream
// is meaningful once one is raised.
type FatalError struct {
	Op    string
	Order int
	Max   int
}

func (fe *FatalError) Error() string {
	return fmt.Sprintf("%s: %v %d, supported orders are 1 to %d",
		fe.Op, ErrUnsupportedOrder, fe.Order, fe.Max)
}

func (fe *FatalError) Unwrap() error { return ErrUnsupportedOrder }

func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
