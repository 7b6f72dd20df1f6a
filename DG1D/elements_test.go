package DG1D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJacobiGL(t *testing.T) {
	{ // Low orders
		assert.Equal(t, []float64{-1, 1}, JacobiGL(0, 0, 1))
		X := JacobiGL(0, 0, 2)
		assert.InDeltaSlice(t, []float64{-1, 0, 1}, X, 1.e-12)
	}
	{ // N=3 interior points are +-1/sqrt(5)
		X := JacobiGL(0, 0, 3)
		require.Equal(t, 4, len(X))
		assert.True(t, near(X[1], -0.4472135955))
		assert.True(t, near(X[2], 0.4472135955))
	}
	{ // Ascending and symmetric
		for N := 1; N < 10; N++ {
			X := JacobiGL(0, 0, N)
			for i := 1; i < len(X); i++ {
				assert.Less(t, X[i-1], X[i])
			}
			for i := range X {
				assert.InDelta(t, -X[i], X[N-i], 1.e-12)
			}
		}
	}
}

func TestJacobiGQ(t *testing.T) {
	// The N+1 point rule integrates polynomials up to degree 2N+1 exactly;
	// compare against a much larger rule for the same weight function
	for _, ab := range [][2]float64{{0, 0}, {1, 0}, {2, 1}} {
		alpha, beta := ab[0], ab[1]
		Xr, Wr := JacobiGQ(alpha, beta, 24)
		for N := 0; N < 8; N++ {
			X, W := JacobiGQ(alpha, beta, N)
			require.Equal(t, N+1, len(X))
			require.Equal(t, N+1, len(W))
			for k := 0; k <= 2*N+1; k++ {
				assert.InDelta(t, moment(Xr, Wr, k), moment(X, W, k), 1.e-10,
					"alpha=%v beta=%v N=%d k=%d", alpha, beta, N, k)
			}
		}
	}
	{ // Weights sum to the integral of the weight function
		_, W := JacobiGQ(0, 0, 5)
		assert.InDelta(t, 2., sum(W), 1.e-12)
		_, W = JacobiGQ(1, 0, 5)
		assert.InDelta(t, 2., sum(W), 1.e-12)
	}
}

func TestJacobiGQWeighted(t *testing.T) {
	// Exact moments of (1-x)^alpha against x^k on [-1,1]
	legendre := func(k int) float64 {
		if k%2 == 1 {
			return 0
		}
		return 2. / float64(k+1)
	}
	exact := func(alpha, k int) float64 {
		switch alpha {
		case 1:
			return legendre(k) - legendre(k+1)
		default: // (1-x)^2
			return legendre(k) - 2*legendre(k+1) + legendre(k+2)
		}
	}
	for _, alpha := range []int{1, 2} {
		for N := 0; N < 7; N++ {
			X, W := JacobiGQ(float64(alpha), 0, N)
			for k := 0; k <= 2*N+1; k++ {
				assert.InDelta(t, exact(alpha, k), moment(X, W, k), 1.e-11,
					"alpha=%d N=%d k=%d", alpha, N, k)
			}
		}
	}
	{ // Single point rule sits at the weighted centroid
		X, W := JacobiGQ(2, 1, 0)
		assert.InDelta(t, 4./3., W[0], 1.e-12)
		assert.InDelta(t, -0.2, X[0], 1.e-12)
	}
}

func TestJacobiP(t *testing.T) {
	{ // Orthonormal under the matching weight
		for _, ab := range [][2]float64{{0, 0}, {1, 0}, {3, 0}} {
			X, W := JacobiGQ(ab[0], ab[1], 12)
			for i := 0; i < 6; i++ {
				Pi := JacobiP(X, ab[0], ab[1], i)
				for j := 0; j < 6; j++ {
					Pj := JacobiP(X, ab[0], ab[1], j)
					var ip float64
					for q := range W {
						ip += W[q] * Pi[q] * Pj[q]
					}
					if i == j {
						assert.InDelta(t, 1., ip, 1.e-10)
					} else {
						assert.InDelta(t, 0., ip, 1.e-10)
					}
				}
			}
		}
	}
	{ // Gradient agrees with a central difference
		r := []float64{-0.7, -0.1, 0.35, 0.9}
		h := 1.e-6
		rp, rm := make([]float64, len(r)), make([]float64, len(r))
		for i := range r {
			rp[i], rm[i] = r[i]+h, r[i]-h
		}
		for N := 0; N < 6; N++ {
			dP := GradJacobiP(r, 0, 0, N)
			Pp, Pm := JacobiP(rp, 0, 0, N), JacobiP(rm, 0, 0, N)
			for i := range r {
				assert.InDelta(t, (Pp[i]-Pm[i])/(2*h), dP[i], 1.e-6)
			}
		}
	}
}

func moment(X, W []float64, k int) (m float64) {
	for i, x := range X {
		m += W[i] * math.Pow(x, float64(k))
	}
	return
}

func sum(a []float64) (s float64) {
	for _, v := range a {
		s += v
	}
	return
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Abs(a) {
		l = true
	}
	return
}
