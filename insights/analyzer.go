// Package insights learns weekly business patterns of a restaurant and turns
// them into alerts, suggestions, trends and short-term predictions.
//
// Every function is a pure computation over its arguments: callers gather the
// historical and current snapshots, and each Analyze call builds its own
// LearningEngine, so concurrent calls share nothing.
package insights

import "deliveryhub/models"

// Analyze runs the complete analysis over a historical and a current snapshot.
func Analyze(historical models.HistoricalData, current models.CurrentData) models.AnalysisOutput {
	engine := NewLearningEngine(historical, current)
	problems := DetectProblems(engine)

	return models.AnalysisOutput{
		ProblemasDetectados:     problems,
		SugestoesPersonalizadas: GenerateSuggestions(engine, problems),
		Tendencias:              AnalyzeTrends(historical),
		MetricasAprendidas:      engine.MetricsSummary(),
		Predicoes:               GeneratePredictions(historical),
	}
}

// AnalyzeTrends classifies the direction of every metric and product series.
func AnalyzeTrends(historical models.HistoricalData) models.Trends {
	trends := models.Trends{
		Abandonos:     metricTrend(MetricAbandonment.Series(historical)),
		Conversao:     metricTrend(MetricConversion.Series(historical)),
		Cancelamentos: metricTrend(MetricCancellations.Series(historical)),
		Pedidos:       metricTrend(MetricOrders.Series(historical)),
		Produtos:      make([]models.ProductTrend, 0),
	}
	for _, p := range productSeries(historical) {
		trends.Produtos = append(trends.Produtos, productTrend(p))
	}
	return trends
}

func metricTrend(series []float64) models.Trend {
	return models.Trend{
		Status:             ClassifyTrend(LinRegSlope(series), metricTrendThreshold),
		VariacaoPercentual: PctChange(last(series), first(series)),
		Confianca:          RSquared(series),
	}
}

func productTrend(p models.ProductSeries) models.ProductTrend {
	status := models.ProductSteady
	switch ClassifyTrend(LinRegSlope(p.Vendas), productTrendThreshold) {
	case models.TrendUp:
		status = models.ProductGrowing
	case models.TrendDown:
		status = models.ProductFalling
	}
	return models.ProductTrend{
		Produto:   p.Produto,
		Tendencia: status,
		Variacao:  PctChange(last(p.Vendas), first(p.Vendas)),
	}
}
