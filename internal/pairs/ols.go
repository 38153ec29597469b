package pairs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// olsFit solves y = X*b by QR decomposition and returns the coefficient
// vector with its standard errors. Plain least squares, no regularization.
func olsFit(x *mat.Dense, y []float64) (coef, stderr []float64, err error) {
	n, k := x.Dims()
	if n != len(y) {
		return nil, nil, fmt.Errorf("design matrix has %d rows but response has %d", n, len(y))
	}
	if n <= k {
		return nil, nil, fmt.Errorf("need more observations (%d) than regressors (%d)", n, k)
	}

	var qr mat.QR
	qr.Factorize(x)
	yMat := mat.NewDense(n, 1, y)
	var bMat mat.Dense
	if err := qr.SolveTo(&bMat, false, yMat); err != nil {
		return nil, nil, fmt.Errorf("singular design matrix: %w", err)
	}

	coef = make([]float64, k)
	for j := 0; j < k; j++ {
		coef[j] = bMat.At(j, 0)
	}

	// Residual variance and coefficient covariance s^2 * (X'X)^-1.
	rss := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := 0; j < k; j++ {
			fitted += x.At(i, j) * coef[j]
		}
		r := y[i] - fitted
		rss += r * r
	}
	s2 := rss / float64(n-k)

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, nil, fmt.Errorf("X'X not invertible: %w", err)
	}

	stderr = make([]float64, k)
	for j := 0; j < k; j++ {
		stderr[j] = math.Sqrt(s2 * xtxInv.At(j, j))
	}
	return coef, stderr, nil
}
