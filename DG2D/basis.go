package DG2D

import (
	"math"

	"github.com/notargets/dgamr/DG1D"
	"github.com/notargets/dgamr/utils"
)

func Vandermonde2D(N int, R, S []float64) (V2D utils.Matrix) {
	V2D = utils.NewMatrix(len(R), (N+1)*(N+2)/2)
	var sk int
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			V2D.SetCol(sk, Simplex2DP(R, S, i, j))
			sk++
		}
	}
	return
}

func GradVandermonde2D(N int, R, S []float64) (V2Dr, V2Ds utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) / 2
		Nr = len(R)
	)
	V2Dr, V2Ds = utils.NewMatrix(Nr, Np), utils.NewMatrix(Nr, Np)
	var sk int
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			ddr, dds := GradSimplex2DP(R, S, i, j)
			V2Dr.SetCol(sk, ddr)
			V2Ds.SetCol(sk, dds)
			sk++
		}
	}
	return
}

// Simplex2DP evaluates the orthonormal (i,j) mode on the triangle
func Simplex2DP(R, S []float64, i, j int) (P []float64) {
	var (
		A, B = RStoAB(R, S)
	)
	h1 := DG1D.JacobiP(A, 0, 0, i)
	h2 := DG1D.JacobiP(B, float64(2*i+1), 0, j)
	P = make([]float64, len(A))
	sq2 := math.Sqrt(2)
	for ii := range h1 {
		P[ii] = sq2 * h1[ii] * h2[ii] * utils.POW(1-B[ii], i)
	}
	return
}

func GradSimplex2DP(R, S []float64, id, jd int) (ddr, dds []float64) {
	var (
		A, B = RStoAB(R, S)
	)
	fa := DG1D.JacobiP(A, 0, 0, id)
	dfa := DG1D.GradJacobiP(A, 0, 0, id)
	gb := DG1D.JacobiP(B, 2*float64(id)+1, 0, jd)
	dgb := DG1D.GradJacobiP(B, 2*float64(id)+1, 0, jd)
	norm := math.Pow(2, float64(id)+0.5)
	// d/dr = da/dr d/da + db/dr d/db = (2/(1-s)) d/da = (2/(1-B)) d/da
	ddr = make([]float64, len(gb))
	for i := range ddr {
		ddr[i] = dfa[i] * gb[i]
		if id > 0 {
			ddr[i] *= utils.POW(0.5*(1-B[i]), id-1)
		}
		ddr[i] *= norm
	}
	// d/ds = ((1+A)/2)/((1-B)/2) d/da + d/db
	dds = make([]float64, len(gb))
	for i := range dds {
		dds[i] = 0.5 * dfa[i] * gb[i] * (1 + A[i])
		if id > 0 {
			dds[i] *= utils.POW(0.5*(1-B[i]), id-1)
		}
		tmp := dgb[i] * utils.POW(0.5*(1-B[i]), id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[i] * utils.POW(0.5*(1-B[i]), id-1)
		}
		dds[i] += fa[i] * tmp
		dds[i] *= norm
	}
	return
}
