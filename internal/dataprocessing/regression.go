package dataprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "springcli/internal/errors"
)

// tiny keeps the t statistic finite for a perfect fit
const tiny = 1.0e-20

// LinearFit is an ordinary least squares fit of y on x
type LinearFit struct {
	Slope     float64
	Intercept float64
	R         float64
	PValue    float64
	N         int
}

// FitLinear fits y = Intercept + Slope*x and tests Slope = 0 with a two-sided
// Student t test on n-2 degrees of freedom. A constant y gives R = 0, PValue = 1.
func FitLinear(xs, ys []float64) (LinearFit, error) {
	n := len(xs)
	if n != len(ys) {
		return LinearFit{}, apperrors.NewValidationError(fmt.Sprintf("x and y lengths differ: %d != %d", n, len(ys)))
	}
	if n < 3 {
		return LinearFit{}, apperrors.NewValidationError(fmt.Sprintf("need at least 3 points, have %d", n))
	}
	if isConstant(xs) {
		return LinearFit{}, apperrors.NewValidationError("x values are all identical")
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := LinearFit{Slope: slope, Intercept: intercept, N: n}

	if isConstant(ys) {
		fit.Slope = 0
		fit.Intercept = ys[0]
		fit.R = 0
		fit.PValue = 1
		return fit, nil
	}

	r := stat.Correlation(xs, ys, nil)
	r = math.Max(-1, math.Min(1, r))
	fit.R = r

	df := float64(n - 2)
	t := r * math.Sqrt(df/((1.0-r+tiny)*(1.0+r+tiny)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	fit.PValue = math.Min(1, 2*dist.CDF(-math.Abs(t)))

	return fit, nil
}

func isConstant(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}
