// Package report renders an analysis as a printable PDF.
package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"deliveryhub/models"
)

var (
	darkGray   = color.Color{Red: 38, Green: 38, Blue: 34}
	mediumGray = color.Color{Red: 121, Green: 119, Blue: 109}
	alertRed   = color.Color{Red: 180, Green: 35, Blue: 24}
)

// BuildInsightsPDF renders output for restaurantName and returns the PDF bytes.
func BuildInsightsPDF(restaurantName string, output models.AnalysisOutput, generatedAt time.Time) ([]byte, error) {
	if restaurantName == "" {
		restaurantName = "Restaurante"
	}
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 20, 20)

	heading(m, "RELATÓRIO DE INSIGHTS", 20)
	m.Row(8, func() {
		m.Col(8, func() {
			m.Text(restaurantName, props.Text{Size: 12, Style: consts.Bold, Color: darkGray})
		})
		m.Col(4, func() {
			m.Text(generatedAt.Format("02/01/2006 15:04"), props.Text{Size: 9, Color: mediumGray, Align: consts.Right})
		})
	})
	m.Row(6, func() {})

	section(m, "Problemas detectados")
	if len(output.ProblemasDetectados) == 0 {
		paragraph(m, "Nenhum problema detectado no período.", mediumGray)
	}
	for _, p := range output.ProblemasDetectados {
		textColor := darkGray
		if p.Gravidade.Rank() >= models.SeverityHigh.Rank() {
			textColor = alertRed
		}
		paragraph(m, fmt.Sprintf("[%s] %s", p.Gravidade, p.Mensagem), textColor)
		if p.ImpactoEstimado != nil {
			paragraph(m, "Impacto estimado: "+*p.ImpactoEstimado, mediumGray)
		}
	}

	section(m, "Sugestões")
	for i, s := range output.SugestoesPersonalizadas {
		paragraph(m, fmt.Sprintf("%d. %s", i+1, s), darkGray)
	}

	section(m, "Tendências")
	trendRow(m, "Pedidos", output.Tendencias.Pedidos)
	trendRow(m, "Cancelamentos", output.Tendencias.Cancelamentos)
	trendRow(m, "Abandonos", output.Tendencias.Abandonos)
	trendRow(m, "Conversão", output.Tendencias.Conversao)
	for _, p := range output.Tendencias.Produtos {
		paragraph(m, fmt.Sprintf("%s: %s (%+.1f%%)", p.Produto, p.Tendencia, p.Variacao), darkGray)
	}

	section(m, "Predições para os próximos 7 dias")
	for _, p := range output.Predicoes {
		m.Row(6, func() {
			m.Col(4, func() {
				m.Text(p.Tipo, props.Text{Size: 9, Color: darkGray})
			})
			m.Col(3, func() {
				m.Text(fmt.Sprintf("%.1f", p.ValorPrevisto), props.Text{Size: 9, Color: darkGray, Align: consts.Right})
			})
			m.Col(3, func() {
				m.Text(fmt.Sprintf("confiança %.0f%%", p.Confianca), props.Text{Size: 9, Color: mediumGray, Align: consts.Right})
			})
			m.Col(2, func() {
				m.Text(string(p.Tendencia), props.Text{Size: 9, Color: mediumGray, Align: consts.Right})
			})
		})
	}

	buf, err := m.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(m pdf.Maroto, text string, size float64) {
	m.Row(12, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{Size: size, Style: consts.Bold, Color: darkGray})
		})
	})
}

func section(m pdf.Maroto, title string) {
	m.Row(4, func() {})
	m.Row(8, func() {
		m.Col(12, func() {
			m.Text(title, props.Text{Size: 12, Style: consts.Bold, Color: darkGray})
		})
	})
}

func paragraph(m pdf.Maroto, text string, c color.Color) {
	m.Row(7, func() {
		m.Col(12, func() {
			m.Text(text, props.Text{Size: 9, Color: c})
		})
	})
}

func trendRow(m pdf.Maroto, label string, t models.Trend) {
	m.Row(6, func() {
		m.Col(4, func() {
			m.Text(label, props.Text{Size: 9, Color: darkGray})
		})
		m.Col(4, func() {
			m.Text(string(t.Status), props.Text{Size: 9, Color: darkGray})
		})
		m.Col(4, func() {
			m.Text(fmt.Sprintf("%+.1f%% (R² %.2f)", t.VariacaoPercentual, t.Confianca), props.Text{Size: 9, Color: mediumGray, Align: consts.Right})
		})
	})
}
