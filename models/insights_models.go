package models

// ProductSeries is the per-period sales history of a single product, aligned
// with the period index of HistoricalData.
type ProductSeries struct {
	Produto string    `json:"produto"`
	Vendas  []float64 `json:"vendas"`
}

// ProductHistory groups the best and worst selling product series.
type ProductHistory struct {
	MaisVendidos  []ProductSeries `json:"mais_vendidos"`
	MenosVendidos []ProductSeries `json:"menos_vendidos"`
}

// HistoricalData is a snapshot of Semanas contiguous periods ordered oldest to newest.
// Every series is expected to have the same length.
type HistoricalData struct {
	Semanas       int            `json:"semanas"`
	Pedidos       []float64      `json:"pedidos"`
	Cancelamentos []float64      `json:"cancelamentos"`
	Abandonos     []float64      `json:"abandonos"`
	Conversao     []float64      `json:"conversao"`
	Produtos      ProductHistory `json:"produtos"`
}

// ProductSales is the sales count of a product in the current period.
type ProductSales struct {
	Produto string  `json:"produto"`
	Vendas  float64 `json:"vendas"`
}

// CurrentData is the latest period snapshot.
type CurrentData struct {
	PedidosTotal          float64        `json:"pedidos_total"`
	Cancelamentos         float64        `json:"cancelamentos"`
	Abandonos             float64        `json:"abandonos"`
	Conversao             float64        `json:"conversao"`
	ProdutosMaisVendidos  []ProductSales `json:"produtos_mais_vendidos"`
	ProdutosMenosVendidos []ProductSales `json:"produtos_menos_vendidos"`
}

// InsightsSnapshot is the request body accepted by the snapshot analysis
// endpoint and by the insightctl CLI.
type InsightsSnapshot struct {
	Historico HistoricalData `json:"historico"`
	Atual     CurrentData    `json:"atual"`
}

// LearningMetrics is the statistical profile learned from a series.
type LearningMetrics struct {
	Media          float64 `json:"media"`
	DesvioPadrao   float64 `json:"desvio_padrao"`
	Tendencia      float64 `json:"tendencia"`
	LimiteSuperior float64 `json:"limite_superior"`
	LimiteInferior float64 `json:"limite_inferior"`
}

// Severity is the gravidade tier of a detected problem.
type Severity string

const (
	SeverityLow      Severity = "baixa"
	SeverityMedium   Severity = "média"
	SeverityHigh     Severity = "alta"
	SeverityCritical Severity = "crítica"
)

// Rank orders severities from 0 (baixa) to 3 (crítica). Unknown values rank -1.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	}
	return -1
}

// Problem is an alert produced by the problem detector.
type Problem struct {
	Alerta          bool     `json:"alerta"`
	Tipo            string   `json:"tipo"`
	Gravidade       Severity `json:"gravidade"`
	Mensagem        string   `json:"mensagem"`
	Sugestao        string   `json:"sugestao"`
	ImpactoEstimado *string  `json:"impacto_estimado,omitempty"`
}

// TrendStatus is the direction of a scalar metric.
type TrendStatus string

const (
	TrendUp     TrendStatus = "subindo"
	TrendDown   TrendStatus = "descendo"
	TrendStable TrendStatus = "estável"
)

// Trend describes the direction of one scalar metric.
type Trend struct {
	Status             TrendStatus `json:"status"`
	VariacaoPercentual float64     `json:"variacao_percentual"`
	Confianca          float64     `json:"confianca"`
}

// ProductTrendStatus is the direction of a product's sales.
type ProductTrendStatus string

const (
	ProductGrowing ProductTrendStatus = "crescendo"
	ProductFalling ProductTrendStatus = "caindo"
	ProductSteady  ProductTrendStatus = "estável"
)

// ProductTrend classifies the sales direction of a single product.
type ProductTrend struct {
	Produto   string             `json:"produto"`
	Tendencia ProductTrendStatus `json:"tendencia"`
	Variacao  float64            `json:"variacao"`
}

// Trends groups the trend of every tracked metric and product.
type Trends struct {
	Abandonos     Trend          `json:"abandonos"`
	Conversao     Trend          `json:"conversao"`
	Cancelamentos Trend          `json:"cancelamentos"`
	Pedidos       Trend          `json:"pedidos"`
	Produtos      []ProductTrend `json:"produtos"`
}

// PredictionTrend is the coarse direction label of a prediction.
type PredictionTrend string

const (
	PredictionUp     PredictionTrend = "alta"
	PredictionDown   PredictionTrend = "baixa"
	PredictionStable PredictionTrend = "estável"
)

// Prediction projects one metric DiasAFrente periods ahead.
type Prediction struct {
	Tipo          string          `json:"tipo"`
	ValorPrevisto float64         `json:"valor_previsto"`
	Confianca     float64         `json:"confianca"`
	DiasAFrente   int             `json:"dias_a_frente"`
	Tendencia     PredictionTrend `json:"tendencia"`
}

// MetricsSummary holds the learned numbers most often shown on the dashboard.
type MetricsSummary struct {
	MediaAbandonos  float64 `json:"media_abandonos"`
	MediaConversao  float64 `json:"media_conversao"`
	MediaPedidos    float64 `json:"media_pedidos"`
	DesvioAbandonos float64 `json:"desvio_abandonos"`
	DesvioConversao float64 `json:"desvio_conversao"`
}

// AnalysisOutput is the full result of one analysis call.
type AnalysisOutput struct {
	ProblemasDetectados     []Problem      `json:"problemas_detectados"`
	SugestoesPersonalizadas []string       `json:"sugestoes_personalizadas"`
	Tendencias              Trends         `json:"tendencias"`
	MetricasAprendidas      MetricsSummary `json:"metricas_aprendidas"`
	Predicoes               []Prediction   `json:"predicoes"`
}
