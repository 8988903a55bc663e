package insights

// Hand-tuned thresholds. Values are kept as shipped; adjust here only.
const (
	// Width of the learned normal band, in standard deviations.
	patternBandWidth = 1.5

	// Anomaly severity cutoffs, in standard deviations.
	anomalyThreshold  = 1.5
	anomalyHighCutoff = 2.0
	anomalyCritCutoff = 3.0

	metricTrendThreshold  = 0.05
	productTrendThreshold = 0.3

	popularDeclineRatio   = 0.7
	popularDeclineHighPct = 40.0
	deadStockMaxSales     = 10.0
	minPeriodsForHistory  = 6
	recentDropWindow      = 3
	recentDropMinPct      = 15.0
	recentDropCriticalPct = 30.0

	lowConversionPct       = 3.0
	topSellerHighlightMin  = 50.0
	standoutWeekFactor     = 1.2
	ordersGrowthSlope      = 0.5
	ordersDeclineSlope     = 0.5
	abandonmentRiseSlope   = 0.3
	conversionImproveSlope = 0.1
	productGrowthSlope     = 0.5
	menuReorgMinProducts   = 3
	comboMaxSales          = 15.0
	comboMaxProducts       = 2
	disparityFactor        = 10.0
	disparitySample        = 3

	predictionHorizon        = 7
	predictionEMAWindow      = 4
	predictionTrendThreshold = 0.5
	predictionMinPoints      = 4
	predictionLowConfidence  = 30.0
	predictionMinConfidence  = 40.0
	predictionMaxConfidence  = 95.0
)
