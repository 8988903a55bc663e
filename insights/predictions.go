package insights

import "deliveryhub/models"

// GeneratePredictions projects every tracked metric seven periods ahead from
// the historical snapshot alone.
func GeneratePredictions(historical models.HistoricalData) []models.Prediction {
	predictions := make([]models.Prediction, 0, len(Metrics))
	for _, m := range Metrics {
		predictions = append(predictions, predictMetric(m, m.Series(historical)))
	}
	return predictions
}

func predictMetric(m Metric, series []float64) models.Prediction {
	prediction := models.Prediction{
		Tipo:        string(m),
		Confianca:   predictionLowConfidence,
		DiasAFrente: predictionHorizon,
		Tendencia:   models.PredictionStable,
	}
	if len(series) == 0 {
		return prediction
	}

	trend := LinRegSlope(series)
	movingAvg := EMA(series, predictionEMAWindow)
	predicted := last(movingAvg) + trend*predictionHorizon
	if m.IsPercentage() {
		predicted = clamp(predicted, 0, 100)
	} else if predicted < 0 {
		predicted = 0
	}
	prediction.ValorPrevisto = predicted

	if len(series) >= predictionMinPoints {
		cv := CoefficientOfVariation(series)
		prediction.Confianca = clamp(predictionMaxConfidence-cv*100, predictionMinConfidence, predictionMaxConfidence)
	}

	switch {
	case trend > predictionTrendThreshold:
		prediction.Tendencia = models.PredictionUp
	case trend < -predictionTrendThreshold:
		prediction.Tendencia = models.PredictionDown
	}
	return prediction
}
