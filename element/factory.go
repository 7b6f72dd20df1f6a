package element

import (
	"fmt"

	"github.com/notargets/dgamr/DG1D"
	"github.com/notargets/dgamr/DG2D"
	"github.com/notargets/dgamr/types"
)

// MaxOrder is the highest polynomial order any element supports
const MaxOrder = 9

func CheckOrder(op string, order int) error {
	if order < 1 || order > MaxOrder {
		return &types.FatalError{Op: op, Order: order, Max: MaxOrder}
	}
	return nil
}

func NewBaseFunction(order int, shape types.CellShape) (bf BaseFunction, err error) {
	if err = CheckOrder("NewBaseFunction", order); err != nil {
		return
	}
	switch shape {
	case types.Line:
		var b *DG1D.LineBasis
		if b, err = DG1D.NewLineBasis(order); err == nil {
			bf = b
		}
	case types.Tri:
		var b *DG2D.TriBasis
		if b, err = DG2D.NewTriBasis(order); err == nil {
			bf = b
		}
	default:
		err = fmt.Errorf("%w: unknown cell shape %v", types.ErrInvalidArgument, shape)
	}
	return
}

func NewGaussIntegration(bf BaseFunction) (gi GaussIntegration, err error) {
	switch b := bf.(type) {
	case *DG1D.LineBasis:
		gi = DG1D.NewLineGauss(b)
	case *DG2D.TriBasis:
		gi = DG2D.NewTriGauss(b)
	default:
		// Foreign implementations get the cubature of the native basis of the same order
		var native BaseFunction
		if native, err = NewBaseFunction(bf.NOrder(), bf.CellShape()); err != nil {
			return
		}
		return NewGaussIntegration(native)
	}
	return
}
