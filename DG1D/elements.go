package DG1D

import (
	"math"

	"github.com/notargets/dgamr/utils"
	"gonum.org/v1/gonum/mat"
)

// JacobiGL computes the Gauss-Lobatto points of the Jacobi polynomial of order N,
// the zeros of (1-X^2)*P'_N^{alpha,beta}(X)
func JacobiGL(alpha, beta float64, N int) (X []float64) {
	if N == 0 {
		return []float64{0.}
	}
	if N == 1 {
		return []float64{-1., 1.}
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
	X = make([]float64, N+1)
	X[0] = -1
	copy(X[1:N], xint)
	X[N] = 1
	return
}

// JacobiGQ computes the N+1 point Gauss quadrature for weight (1-x)^alpha*(1+x)^beta
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	var (
		fac        float64
		h1, d0, d1 []float64
	)
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{gamma0(alpha, beta)}
		return
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-(alpha^2-beta^2)./(h1+2)./h1), the symmetrized J+J'
	d0 = make([]float64, N+1)
	fac = -(alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := mat.NewSymDense(N+1, nil)
	for i := 0; i < N+1; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < N {
			JJ.SetSym(i, i+1, d1[i])
		}
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	VVr := mat.NewDense(N+1, N+1, nil)
	eig.VectorsTo(VVr)
	W = make([]float64, N+1)
	g0 := gamma0(alpha, beta)
	for i := range W {
		v := VVr.At(0, i)
		W[i] = v * v * g0
	}
	return
}

// JacobiP evaluates the orthonormal Jacobi polynomial of order N at points r
func JacobiP(r []float64, alpha, beta float64, N int) (p []float64) {
	var (
		Nc = len(r)
		ab = alpha + beta
		a1 = alpha + 1.
		b1 = beta + 1.
	)
	PL := make([][]float64, N+1)
	PL[0] = utils.ConstArray(Nc, 1./math.Sqrt(gamma0(alpha, beta)))
	if N == 0 {
		return PL[0]
	}
	rg1 := 1. / math.Sqrt(gamma1(alpha, beta))
	PL[1] = make([]float64, Nc)
	for i, x := range r {
		PL[1][i] = rg1 * ((ab+2.0)*x/2.0 + (alpha-beta)/2.0)
	}
	if N == 1 {
		return PL[1]
	}

	aold := 2.0 / (2.0 + ab) * math.Sqrt(a1*b1/(ab+3.0))
	for i := 1; i < N; i++ {
		fi := float64(i)
		h1 := 2.0*fi + ab
		anew := 2.0 / (h1 + 2.0) * math.Sqrt((fi+1)*(fi+1+ab)*(fi+1+alpha)*(fi+1+beta)/(h1+1.0)/(h1+3.0))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2.0)
		PL[i+1] = make([]float64, Nc)
		for j, x := range r {
			PL[i+1][j] = (-aold*PL[i-1][j] + (x-bnew)*PL[i][j]) / anew
		}
		aold = anew
	}
	p = PL[N]
	return
}

func GradJacobiP(r []float64, alpha, beta float64, N int) (p []float64) {
	if N == 0 {
		p = make([]float64, len(r))
		return
	}
	p = JacobiP(r, alpha+1, beta+1, N-1)
	fN := float64(N)
	fac := math.Sqrt(fN * (fN + alpha + beta + 1))
	for i, val := range p {
		p[i] = val * fac
	}
	return
}

func Vandermonde1D(N int, R []float64) (V utils.Matrix) {
	V = utils.NewMatrix(len(R), N+1)
	for j := 0; j < N+1; j++ {
		V.SetCol(j, JacobiP(R, 0, 0, j))
	}
	return
}

func GradVandermonde1D(R []float64, N int) (Vr utils.Matrix) {
	Vr = utils.NewMatrix(len(R), N+1)
	for i := 0; i < N+1; i++ {
		Vr.SetCol(i, GradJacobiP(R, 0, 0, i))
	}
	return
}

func Lift1D(V utils.Matrix, Np, Nfaces, Nfp int) (LIFT utils.Matrix) {
	Emat := utils.NewMatrix(Np, Nfaces*Nfp)
	Emat.Set(0, 0, 1)
	Emat.Set(Np-1, 1, 1)
	LIFT = V.Mul(V.Transpose()).Mul(Emat)
	return
}
