package insights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"deliveryhub/models"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.Equal(t, 7.5, Mean([]float64{7.5}))
	assert.Equal(t, 30.0, Mean([]float64{10, 20, 30, 40, 50}))
	assert.InDelta(t, Mean([]float64{3, 1, 4, 1, 5}), Mean([]float64{5, 4, 3, 1, 1}), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{4, 4, 4}))
	assert.Equal(t, 0.0, StdDev([]float64{-2.5, -2.5, -2.5}))
	// population deviation divides by N
	assert.InDelta(t, math.Sqrt(200), StdDev([]float64{10, 20, 30, 40, 50}), 1e-9)
}

func TestEMA(t *testing.T) {
	assert.Nil(t, EMA(nil, 4))

	ema := EMA([]float64{10, 20}, 3)
	assert.Equal(t, []float64{10, 15}, ema)

	// window 1 means k = 1, so the average follows the series exactly
	assert.Equal(t, []float64{1, 2, 3}, EMA([]float64{1, 2, 3}, 1))

	ema = EMA([]float64{90, 95, 100, 100}, 4)
	assert.Len(t, ema, 4)
	assert.InDelta(t, 97.12, ema[3], 1e-9)
}

func TestLinRegSlope(t *testing.T) {
	assert.Equal(t, 0.0, LinRegSlope(nil))
	assert.Equal(t, 0.0, LinRegSlope([]float64{42}))

	cases := []struct {
		a, d float64
		n    int
	}{
		{3, 2, 5},
		{100, -7.5, 12},
		{0, 0.25, 3},
		{5, 0, 8},
	}
	for _, c := range cases {
		series := make([]float64, c.n)
		for i := range series {
			series[i] = c.a + float64(i)*c.d
		}
		assert.InDelta(t, c.d, LinRegSlope(series), 1e-9, "a=%v d=%v n=%d", c.a, c.d, c.n)
	}
}

func TestRSquared(t *testing.T) {
	assert.Equal(t, 0.0, RSquared([]float64{1, 2}))
	assert.InDelta(t, 1.0, RSquared([]float64{2, 4, 6, 8}), 1e-9)
	assert.Equal(t, 0.0, RSquared([]float64{5, 5, 5, 5}))

	r2 := RSquared([]float64{10, 11, 9, 10, 12, 10, 11, 9})
	assert.GreaterOrEqual(t, r2, 0.0)
	assert.LessOrEqual(t, r2, 1.0)
}

func TestLinearFitAgainstHandComputedValues(t *testing.T) {
	// x = 0..3, Sxy = 4, Sxx = 5, SST = 5
	series := []float64{1, 3, 2, 4}
	assert.InDelta(t, 0.8, LinRegSlope(series), 1e-12)
	assert.InDelta(t, 0.64, RSquared(series), 1e-12)

	_, intercept, slope := linearFit(series)
	assert.InDelta(t, 1.3, intercept, 1e-12)
	assert.InDelta(t, 0.8, slope, 1e-12)
}

func TestPctChange(t *testing.T) {
	assert.Equal(t, 0.0, PctChange(0, 0))
	assert.Equal(t, 100.0, PctChange(5, 0))
	assert.Equal(t, 50.0, PctChange(150, 100))
	assert.Equal(t, -25.0, PctChange(75, 100))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.0, CoefficientOfVariation(nil))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{0, 0, 0}))
	assert.Equal(t, 0.0, CoefficientOfVariation([]float64{7, 7, 7}))
	assert.InDelta(t, 0.5, CoefficientOfVariation([]float64{1, 3}), 1e-9)
}

func TestClassifyTrend(t *testing.T) {
	assert.Equal(t, models.TrendUp, ClassifyTrend(0.06, metricTrendThreshold))
	assert.Equal(t, models.TrendDown, ClassifyTrend(-0.06, metricTrendThreshold))
	assert.Equal(t, models.TrendStable, ClassifyTrend(0.05, metricTrendThreshold))
	assert.Equal(t, models.TrendStable, ClassifyTrend(0.2, productTrendThreshold))
	assert.Equal(t, models.TrendUp, ClassifyTrend(0.31, productTrendThreshold))
}
