package assistant

import (
	"encoding/json"
	"fmt"

	"deliveryhub/models"
)

const financialInstructions = `Você é o assistente financeiro de um restaurante de delivery.
Responda sempre em português do Brasil, de forma curta e prática.
Use apenas os números do contexto abaixo; quando faltar um dado, diga que ele não está disponível.
Valores monetários em reais (R$) com duas casas decimais.`

const analyticsInstructions = `Você é o analista de desempenho de um restaurante de delivery.
Responda sempre em português do Brasil, de forma curta e prática.
Baseie-se apenas na análise abaixo: problemas detectados, sugestões, tendências, métricas aprendidas e predições.
Priorize problemas de gravidade crítica e alta e explique o que o dono pode fazer ainda esta semana.`

// FinancialSystemPrompt builds the system instruction for revenue questions.
func FinancialSystemPrompt(summary models.FinancialSummary) string {
	return withContext(financialInstructions, "Resumo financeiro", summary)
}

// AnalyticsSystemPrompt builds the system instruction for questions about an
// analysis output.
func AnalyticsSystemPrompt(output models.AnalysisOutput) string {
	return withContext(analyticsInstructions, "Análise", output)
}

func withContext(instructions, title string, data interface{}) string {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		raw = []byte("{}")
	}
	return fmt.Sprintf("%s\n\n%s (JSON):\n%s", instructions, title, raw)
}
