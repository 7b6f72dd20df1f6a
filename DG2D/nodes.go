package DG2D

import (
	"math"

	"github.com/notargets/dgamr/DG1D"
	"github.com/notargets/dgamr/utils"
)

// Nodes2D computes the warp & blend (x,y) nodes in the equilateral triangle for
// polynomial order N
func Nodes2D(N int) (x, y []float64) {
	var (
		alpha                  float64
		Np                     = (N + 1) * (N + 2) / 2
		L1, L2, L3             = make([]float64, Np), make([]float64, Np), make([]float64, Np)
		blend1, blend2, blend3 = make([]float64, Np), make([]float64, Np), make([]float64, Np)
	)
	x, y = make([]float64, Np), make([]float64, Np)

	alpopt := []float64{
		0.0000, 0.0000, 1.4152, 0.1001, 0.2751,
		0.9800, 1.0999, 1.2832, 1.3648, 1.4773,
		1.4959, 1.5743, 1.5770, 1.6223, 1.6258,
	}
	if N < 16 {
		alpha = alpopt[N-1]
	} else {
		alpha = 5. / 3.
	}
	// Create equidistributed nodes on equilateral triangle
	fn := 1. / float64(N)
	var sk int
	for n := 0; n < N+1; n++ {
		for m := 0; m < (N + 1 - n); m++ {
			L1[sk] = float64(n) * fn
			L3[sk] = float64(m) * fn
			sk++
		}
	}
	d32, d13, d21 := make([]float64, Np), make([]float64, Np), make([]float64, Np)
	for i := range x {
		L2[i] = 1 - L1[i] - L3[i]
		x[i] = L3[i] - L2[i]
		y[i] = (2*L1[i] - L3[i] - L2[i]) / math.Sqrt(3)
		// Compute blending function at each node for each edge
		blend1[i] = 4 * L2[i] * L3[i]
		blend2[i] = 4 * L1[i] * L3[i]
		blend3[i] = 4 * L1[i] * L2[i]
		d32[i], d13[i], d21[i] = L3[i]-L2[i], L1[i]-L3[i], L2[i]-L1[i]
	}
	// Amount of warp for each node, for each edge
	warpf1 := Warpfactor(N, d32)
	warpf2 := Warpfactor(N, d13)
	warpf3 := Warpfactor(N, d21)
	// Combine blend & warp, then accumulate deformations associated with each edge
	for i := range x {
		warp1 := blend1[i] * warpf1[i] * (1 + utils.POW(alpha*L1[i], 2))
		warp2 := blend2[i] * warpf2[i] * (1 + utils.POW(alpha*L2[i], 2))
		warp3 := blend3[i] * warpf3[i] * (1 + utils.POW(alpha*L3[i], 2))
		x[i] += warp1 + math.Cos(2*math.Pi/3)*warp2 + math.Cos(4*math.Pi/3)*warp3
		y[i] += math.Sin(2*math.Pi/3)*warp2 + math.Sin(4*math.Pi/3)*warp3
	}
	return
}

// Warpfactor computes the 1D edge warp from equidistant to Gauss-Lobatto nodes
func Warpfactor(N int, rout []float64) (warpF []float64) {
	var (
		Nr   = len(rout)
		Pmat = utils.NewMatrix(N+1, Nr)
	)
	// Compute LGL and equidistant node distribution
	LGLr := DG1D.JacobiGL(0, 0, N)
	req := utils.Linspace(-1, 1, N+1)
	Veq := DG1D.Vandermonde1D(N, req)
	// Evaluate Lagrange polynomial at rout
	for i := 0; i < (N + 1); i++ {
		Pmat.SetRow(i, DG1D.JacobiP(rout, 0, 0, i))
	}
	VeqTinv, err := Veq.Transpose().Inverse()
	if err != nil {
		panic(err)
	}
	Lmat := VeqTinv.Mul(Pmat)
	dr := make([]float64, N+1)
	for i := range dr {
		dr[i] = LGLr[i] - req[i]
	}
	// Compute warp factor
	warpF = Lmat.Transpose().MulVec(dr)
	// Scale factor, zero warp at the edge end points
	for i, r := range rout {
		if math.Abs(r) < 1.0-1.e-10 {
			warpF[i] /= 1 - r*r
		} else {
			warpF[i] = 0
		}
	}
	return
}

// XYtoRS transfers from (x,y) in the equilateral triangle to (r,s) coordinates
// in the standard triangle
func XYtoRS(x, y []float64) (r, s []float64) {
	r, s = make([]float64, len(x)), make([]float64, len(x))
	sr3 := math.Sqrt(3)
	for i := range x {
		l1 := (sr3*y[i] + 1) / 3
		l2 := (-3*x[i] - sr3*y[i] + 2) / 6
		l3 := (3*x[i] - sr3*y[i] + 2) / 6
		r[i] = -l2 + l3 - l1
		s[i] = -l2 - l3 + l1
	}
	return
}

// RStoAB maps the standard triangle onto the collapsed square
func RStoAB(r, s []float64) (a, b []float64) {
	a, b = make([]float64, len(r)), make([]float64, len(r))
	for n := range r {
		a[n], b[n] = rsToab(r[n], s[n])
	}
	return
}

func rsToab(r, s float64) (a, b float64) {
	if s != 1 {
		a = 2*(1+r)/(1-s) - 1
	} else {
		a = -1
	}
	b = s
	return
}
