package insights

import (
	"fmt"
	"math"
	"strings"

	"deliveryhub/models"
)

// Problem type identifiers.
const (
	ProblemHighAbandonment   = "abandono_acima_do_padrao"
	ProblemLowConversion     = "conversao_abaixo_do_padrao"
	ProblemHighCancellations = "cancelamentos_acima_do_padrao"
	ProblemPopularDecline    = "produto_popular_em_queda"
	ProblemDeadStock         = "produtos_parados"
	ProblemRecentOrderDrop   = "queda_pedidos_recente"
)

// Anomaly is the comparison of a value against a learned profile.
type Anomaly struct {
	IsAnomaly bool
	Desvios   float64
	Gravidade models.Severity
}

// DetectAnomaly measures how many standard deviations current is from the
// profile mean. A zero deviation profile is treated as unit deviation.
func DetectAnomaly(current float64, profile models.LearningMetrics) Anomaly {
	stdDev := profile.DesvioPadrao
	if stdDev == 0 {
		stdDev = 1
	}
	desvios := math.Abs(current-profile.Media) / stdDev
	return Anomaly{
		IsAnomaly: desvios > anomalyThreshold,
		Desvios:   desvios,
		Gravidade: severityFor(desvios),
	}
}

func severityFor(desvios float64) models.Severity {
	switch {
	case desvios > anomalyCritCutoff:
		return models.SeverityCritical
	case desvios > anomalyHighCutoff:
		return models.SeverityHigh
	case desvios > anomalyThreshold:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// DetectProblems runs every check against the engine's data. The order of the
// returned problems carries no meaning.
func DetectProblems(engine *LearningEngine) []models.Problem {
	problems := make([]models.Problem, 0)
	checks := []func(*LearningEngine) []models.Problem{
		checkAbandonment,
		checkConversion,
		checkCancellations,
		checkPopularProducts,
		checkDeadStock,
		checkRecentOrderDrop,
	}
	for _, check := range checks {
		problems = append(problems, check(engine)...)
	}
	return problems
}

func checkAbandonment(e *LearningEngine) []models.Problem {
	profile := e.Profile(MetricAbandonment)
	current := e.CurrentValue(MetricAbandonment)
	anomaly := DetectAnomaly(current, profile)
	if !anomaly.IsAnomaly || current <= profile.Media {
		return nil
	}
	return []models.Problem{{
		Alerta:    true,
		Tipo:      ProblemHighAbandonment,
		Gravidade: anomaly.Gravidade,
		Mensagem: fmt.Sprintf("Abandono de carrinho em %.1f%%, acima do padrão aprendido de %.1f%% (±%.1f)",
			current, profile.Media, profile.DesvioPadrao),
		Sugestao:        "Revise o checkout: reduza etapas, deixe a taxa de entrega visível antes do pagamento e envie lembretes para carrinhos abandonados",
		ImpactoEstimado: impact("%.0f%% acima da média histórica", e.PercentDeviation(MetricAbandonment)),
	}}
}

func checkConversion(e *LearningEngine) []models.Problem {
	profile := e.Profile(MetricConversion)
	current := e.CurrentValue(MetricConversion)
	anomaly := DetectAnomaly(current, profile)
	if !anomaly.IsAnomaly || current >= profile.Media {
		return nil
	}
	return []models.Problem{{
		Alerta:    true,
		Tipo:      ProblemLowConversion,
		Gravidade: anomaly.Gravidade,
		Mensagem: fmt.Sprintf("Conversão em %.1f%%, abaixo do padrão aprendido de %.1f%%",
			current, profile.Media),
		Sugestao:        "Revise preços e o pedido mínimo, e teste um cupom de primeira compra para recuperar a conversão",
		ImpactoEstimado: impact("%.0f%% abaixo da média histórica", -e.PercentDeviation(MetricConversion)),
	}}
}

func checkCancellations(e *LearningEngine) []models.Problem {
	profile := e.Profile(MetricCancellations)
	current := e.CurrentValue(MetricCancellations)
	anomaly := DetectAnomaly(current, profile)
	if !anomaly.IsAnomaly || current <= profile.Media {
		return nil
	}
	rate := ratio(current, e.Current().PedidosTotal)
	return []models.Problem{{
		Alerta:    true,
		Tipo:      ProblemHighCancellations,
		Gravidade: anomaly.Gravidade,
		Mensagem: fmt.Sprintf("%.0f cancelamentos no período (%.1f%% dos pedidos), acima do padrão de %.1f",
			current, rate, profile.Media),
		Sugestao:        "Verifique tempo de preparo, itens em falta e atrasos na entrega, os motivos mais comuns de cancelamento",
		ImpactoEstimado: impact("%.0f%% acima da média histórica", e.PercentDeviation(MetricCancellations)),
	}}
}

func checkPopularProducts(e *LearningEngine) []models.Problem {
	patterns := e.LearnProductPatterns()
	var problems []models.Problem
	for _, p := range e.Current().ProdutosMaisVendidos {
		profile, ok := patterns[p.Produto]
		if !ok || profile.Media == 0 || p.Vendas >= popularDeclineRatio*profile.Media {
			continue
		}
		drop := (profile.Media - p.Vendas) / profile.Media * 100
		severity := models.SeverityMedium
		if drop > popularDeclineHighPct {
			severity = models.SeverityHigh
		}
		problems = append(problems, models.Problem{
			Alerta:    true,
			Tipo:      ProblemPopularDecline,
			Gravidade: severity,
			Mensagem: fmt.Sprintf("%s vendeu %.0f unidades, %.0f%% abaixo da sua média de %.1f",
				p.Produto, p.Vendas, drop, profile.Media),
			Sugestao:        fmt.Sprintf("Confira disponibilidade, preço e foto de %s e considere uma promoção relâmpago", p.Produto),
			ImpactoEstimado: impact("queda de %.0f%% nas vendas do produto", drop),
		})
	}
	return problems
}

func checkDeadStock(e *LearningEngine) []models.Problem {
	if periods(e.Historical()) < minPeriodsForHistory {
		return nil
	}
	var stalled []string
	for _, p := range e.Current().ProdutosMenosVendidos {
		if p.Vendas < deadStockMaxSales {
			stalled = append(stalled, p.Produto)
		}
	}
	if len(stalled) == 0 {
		return nil
	}
	return []models.Problem{{
		Alerta:    true,
		Tipo:      ProblemDeadStock,
		Gravidade: models.SeverityMedium,
		Mensagem: fmt.Sprintf("%d produto(s) com menos de %.0f vendas no período: %s",
			len(stalled), deadStockMaxSales, strings.Join(stalled, ", ")),
		Sugestao: "Reposicione ou retire do cardápio os itens parados e use os ingredientes em pratos de maior saída",
	}}
}

func checkRecentOrderDrop(e *LearningEngine) []models.Problem {
	orders := e.Historical().Pedidos
	if len(orders) < minPeriodsForHistory {
		return nil
	}
	n := len(orders)
	recent := Mean(orders[n-recentDropWindow:])
	previous := Mean(orders[n-2*recentDropWindow : n-recentDropWindow])
	if previous == 0 {
		return nil
	}
	drop := (previous - recent) / previous * 100
	if drop <= recentDropMinPct {
		return nil
	}
	severity := models.SeverityHigh
	if drop > recentDropCriticalPct {
		severity = models.SeverityCritical
	}
	return []models.Problem{{
		Alerta:    true,
		Tipo:      ProblemRecentOrderDrop,
		Gravidade: severity,
		Mensagem: fmt.Sprintf("Pedidos caíram %.0f%% nas últimas %d semanas (média %.1f contra %.1f antes)",
			drop, recentDropWindow, recent, previous),
		Sugestao:        "Reative clientes antigos com uma campanha de cupom e confira se a loja está aberta e visível nos horários de pico",
		ImpactoEstimado: impact("cerca de %.0f pedidos a menos por semana", previous-recent),
	}}
}

func impact(format string, v float64) *string {
	s := fmt.Sprintf(format, v)
	return &s
}
