package insights

import "deliveryhub/models"

// Metric is one of the scalar business metrics tracked per period.
type Metric string

const (
	MetricAbandonment   Metric = "abandonos"
	MetricConversion    Metric = "conversao"
	MetricCancellations Metric = "cancelamentos"
	MetricOrders        Metric = "pedidos"
)

// Metrics lists every tracked metric in reporting order.
var Metrics = []Metric{MetricAbandonment, MetricConversion, MetricCancellations, MetricOrders}

// IsPercentage reports whether the metric is bounded to [0, 100].
func (m Metric) IsPercentage() bool {
	return m == MetricAbandonment || m == MetricConversion
}

// Series returns the historical series of the metric.
func (m Metric) Series(h models.HistoricalData) []float64 {
	switch m {
	case MetricAbandonment:
		return h.Abandonos
	case MetricConversion:
		return h.Conversao
	case MetricCancellations:
		return h.Cancelamentos
	case MetricOrders:
		return h.Pedidos
	}
	return nil
}

// Current returns the value of the metric in the current period.
func (m Metric) Current(c models.CurrentData) float64 {
	switch m {
	case MetricAbandonment:
		return c.Abandonos
	case MetricConversion:
		return c.Conversao
	case MetricCancellations:
		return c.Cancelamentos
	case MetricOrders:
		return c.PedidosTotal
	}
	return 0
}

// Trend returns the trend of the metric from an analysis.
func (m Metric) Trend(t models.Trends) models.Trend {
	switch m {
	case MetricAbandonment:
		return t.Abandonos
	case MetricConversion:
		return t.Conversao
	case MetricCancellations:
		return t.Cancelamentos
	case MetricOrders:
		return t.Pedidos
	}
	return models.Trend{}
}
