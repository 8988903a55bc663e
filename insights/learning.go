package insights

import "deliveryhub/models"

// LearnPattern builds the statistical profile of a series.
func LearnPattern(series []float64) models.LearningMetrics {
	mean := Mean(series)
	stdDev := StdDev(series)
	lower := mean - patternBandWidth*stdDev
	if lower < 0 {
		lower = 0
	}
	return models.LearningMetrics{
		Media:          mean,
		DesvioPadrao:   stdDev,
		Tendencia:      LinRegSlope(series),
		LimiteSuperior: mean + patternBandWidth*stdDev,
		LimiteInferior: lower,
	}
}

// LearningEngine holds the profiles learned for a single analysis call.
// It is read-only once built.
type LearningEngine struct {
	historical models.HistoricalData
	current    models.CurrentData
	profiles   map[Metric]models.LearningMetrics
}

// NewLearningEngine profiles every tracked metric from the historical snapshot.
func NewLearningEngine(historical models.HistoricalData, current models.CurrentData) *LearningEngine {
	profiles := make(map[Metric]models.LearningMetrics, len(Metrics))
	for _, m := range Metrics {
		profiles[m] = LearnPattern(m.Series(historical))
	}
	return &LearningEngine{
		historical: historical,
		current:    current,
		profiles:   profiles,
	}
}

// Historical returns the snapshot the engine was built from.
func (e *LearningEngine) Historical() models.HistoricalData { return e.historical }

// Current returns the current period snapshot.
func (e *LearningEngine) Current() models.CurrentData { return e.current }

// Profile returns the learned profile of a metric.
func (e *LearningEngine) Profile(m Metric) models.LearningMetrics {
	return e.profiles[m]
}

// CurrentValue returns the current period value of a metric.
func (e *LearningEngine) CurrentValue(m Metric) float64 {
	return m.Current(e.current)
}

// IsWithinPattern reports whether the current value lies inside the learned band.
func (e *LearningEngine) IsWithinPattern(m Metric) bool {
	p := e.profiles[m]
	v := e.CurrentValue(m)
	return v >= p.LimiteInferior && v <= p.LimiteSuperior
}

// PercentDeviation returns how far the current value is from the learned mean, in percent.
func (e *LearningEngine) PercentDeviation(m Metric) float64 {
	p := e.profiles[m]
	if p.Media == 0 {
		return 0
	}
	return (e.CurrentValue(m) - p.Media) / p.Media * 100
}

// LearnProductPatterns profiles every product of the best and worst seller
// lists, keyed by product name. A name present in both lists keeps the first
// series seen (best sellers first).
func (e *LearningEngine) LearnProductPatterns() map[string]models.LearningMetrics {
	patterns := make(map[string]models.LearningMetrics)
	for _, p := range productSeries(e.historical) {
		patterns[p.Produto] = LearnPattern(p.Vendas)
	}
	return patterns
}

// MetricsSummary returns the learned numbers displayed on the dashboard.
func (e *LearningEngine) MetricsSummary() models.MetricsSummary {
	abandonment := e.profiles[MetricAbandonment]
	conversion := e.profiles[MetricConversion]
	return models.MetricsSummary{
		MediaAbandonos:  abandonment.Media,
		MediaConversao:  conversion.Media,
		MediaPedidos:    e.profiles[MetricOrders].Media,
		DesvioAbandonos: abandonment.DesvioPadrao,
		DesvioConversao: conversion.DesvioPadrao,
	}
}

// productSeries merges both product lists in a stable order, dropping repeated names.
func productSeries(h models.HistoricalData) []models.ProductSeries {
	seen := make(map[string]bool)
	merged := make([]models.ProductSeries, 0, len(h.Produtos.MaisVendidos)+len(h.Produtos.MenosVendidos))
	for _, list := range [][]models.ProductSeries{h.Produtos.MaisVendidos, h.Produtos.MenosVendidos} {
		for _, p := range list {
			if seen[p.Produto] {
				continue
			}
			seen[p.Produto] = true
			merged = append(merged, p)
		}
	}
	return merged
}

// periods returns the declared period count, falling back to the order series length.
func periods(h models.HistoricalData) int {
	if h.Semanas > 0 {
		return h.Semanas
	}
	return len(h.Pedidos)
}
