package types

import (
	"fmt"
	"math"
)

// Vector holds reference (r,s,t) or physical (x,y,z) coordinates.
type Vector [3]float64

func (v Vector) Add(a Vector) Vector { return Vector{v[0] + a[0], v[1] + a[1], v[2] + a[2]} }
func (v Vector) Sub(a Vector) Vector { return Vector{v[0] - a[0], v[1] - a[1], v[2] - a[2]} }
func (v Vector) Scale(f float64) Vector {
	return Vector{f * v[0], f * v[1], f * v[2]}
}
func (v Vector) Dot(a Vector) float64 { return v[0]*a[0] + v[1]*a[1] + v[2]*a[2] }
func (v Vector) Norm() float64        { return math.Sqrt(v.Dot(v)) }

// Mid returns the midpoint between v and a
func (v Vector) Mid(a Vector) Vector { return v.Add(a).Scale(0.5) }

// Unit returns v normalized, along with its original length
func (v Vector) Unit() (u Vector, length float64) {
	length = v.Norm()
	if length == 0 {
		return
	}
	u = v.Scale(1. / length)
	return
}

/*
Tensor is a row-major 3x3 tensor. When used as a coordinate transform, component
(i,j) is dx_j/dr_i. Cells of dimension < 3 carry identity entries in their unused
directions so that Det() is the Jacobian of the cell map.
*/
type Tensor [9]float64

func IdentityTensor() (T Tensor) {
	T[0], T[4], T[8] = 1, 1, 1
	return
}

func (T Tensor) At(i, j int) float64        { return T[3*i+j] }
func (T *Tensor) Set(i, j int, val float64) { T[3*i+j] = val }
func (T Tensor) Row(i int) Vector           { return Vector{T[3*i], T[3*i+1], T[3*i+2]} }
func (T Tensor) Col(j int) Vector           { return Vector{T[j], T[3+j], T[6+j]} }

func (T Tensor) Det() float64 {
	return T[0]*(T[4]*T[8]-T[5]*T[7]) -
		T[1]*(T[3]*T[8]-T[5]*T[6]) +
		T[2]*(T[3]*T[7]-T[4]*T[6])
}

func (T Tensor) Inverse() (R Tensor, err error) {
	det := T.Det()
	if math.Abs(det) < 1.e-300 {
		err = fmt.Errorf("%w: singular tensor, det = %g", ErrInvalidArgument, det)
		return
	}
	oodet := 1. / det
	R[0] = (T[4]*T[8] - T[5]*T[7]) * oodet
	R[1] = (T[2]*T[7] - T[1]*T[8]) * oodet
	R[2] = (T[1]*T[5] - T[2]*T[4]) * oodet
	R[3] = (T[5]*T[6] - T[3]*T[8]) * oodet
	R[4] = (T[0]*T[8] - T[2]*T[6]) * oodet
	R[5] = (T[2]*T[3] - T[0]*T[5]) * oodet
	R[6] = (T[3]*T[7] - T[4]*T[6]) * oodet
	R[7] = (T[1]*T[6] - T[0]*T[7]) * oodet
	R[8] = (T[0]*T[4] - T[1]*T[3]) * oodet
	return
}
