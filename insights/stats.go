package insights

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"deliveryhub/models"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// StdDev returns the population standard deviation of xs (divides by N).
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(xs, nil))
}

// EMA returns the exponential moving average of xs with smoothing constant
// 2/(window+1), seeded with xs[0]. It returns nil for an empty slice, so callers
// must check the length before reading the last value.
func EMA(xs []float64, window int) []float64 {
	if len(xs) == 0 {
		return nil
	}
	k := 2.0 / float64(window+1)
	out := make([]float64, len(xs))
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = xs[i]*k + out[i-1]*(1-k)
	}
	return out
}

// linearFit returns the least-squares intercept and slope of xs against 0..n-1.
func linearFit(xs []float64) (idx []float64, alpha, beta float64) {
	idx = make([]float64, len(xs))
	for i := range idx {
		idx[i] = float64(i)
	}
	alpha, beta = stat.LinearRegression(idx, xs, nil, false)
	return idx, alpha, beta
}

// LinRegSlope returns the ordinary least-squares slope of xs against its index.
// Series shorter than two points have slope 0.
func LinRegSlope(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	_, _, slope := linearFit(xs)
	return slope
}

// RSquared returns the coefficient of determination of the linear fit, clamped
// to [0, 1]. Series shorter than three points and constant series return 0.
func RSquared(xs []float64) float64 {
	if len(xs) < 3 || stat.PopVariance(xs, nil) == 0 {
		return 0
	}
	idx, alpha, beta := linearFit(xs)
	return clamp(stat.RSquared(idx, xs, nil, alpha, beta), 0, 1)
}

// PctChange returns the percentage variation from previous to current.
func PctChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// CoefficientOfVariation returns stddev/mean, or 0 when the mean is 0.
func CoefficientOfVariation(xs []float64) float64 {
	mean := Mean(xs)
	if mean == 0 {
		return 0
	}
	return StdDev(xs) / mean
}

// ClassifyTrend labels a slope against a symmetric threshold.
func ClassifyTrend(slope, threshold float64) models.TrendStatus {
	switch {
	case slope > threshold:
		return models.TrendUp
	case slope < -threshold:
		return models.TrendDown
	default:
		return models.TrendStable
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ratio returns part/whole*100, or 0 when whole is 0.
func ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

func first(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[0]
}
