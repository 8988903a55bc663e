package insights

import (
	"errors"
	"fmt"
	"math"

	"deliveryhub/models"
)

// ErrNonFinite is returned by CheckFinite when the inputs were too large for
// float64 arithmetic and the analysis carries NaN or infinite numbers.
var ErrNonFinite = errors.New("analysis produced non-finite values")

type namedValue struct {
	name  string
	value float64
}

// CheckFinite reports the first NaN or infinite number in output. Such values
// cannot be encoded as JSON.
func CheckFinite(output models.AnalysisOutput) error {
	learned := output.MetricasAprendidas
	values := []namedValue{
		{"metricas_aprendidas.media_abandonos", learned.MediaAbandonos},
		{"metricas_aprendidas.media_conversao", learned.MediaConversao},
		{"metricas_aprendidas.media_pedidos", learned.MediaPedidos},
		{"metricas_aprendidas.desvio_abandonos", learned.DesvioAbandonos},
		{"metricas_aprendidas.desvio_conversao", learned.DesvioConversao},
	}
	for _, m := range Metrics {
		trend := m.Trend(output.Tendencias)
		values = append(values,
			namedValue{"tendencias." + string(m) + ".variacao_percentual", trend.VariacaoPercentual},
			namedValue{"tendencias." + string(m) + ".confianca", trend.Confianca},
		)
	}
	for _, p := range output.Tendencias.Produtos {
		values = append(values, namedValue{"tendencias.produtos." + p.Produto + ".variacao", p.Variacao})
	}
	for _, p := range output.Predicoes {
		values = append(values,
			namedValue{"predicoes." + p.Tipo + ".valor_previsto", p.ValorPrevisto},
			namedValue{"predicoes." + p.Tipo + ".confianca", p.Confianca},
		)
	}

	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return fmt.Errorf("%w: %s", ErrNonFinite, v.name)
		}
	}
	return nil
}
