package insights

import (
	"fmt"

	"deliveryhub/models"
)

// suggestionSet keeps suggestions unique in first-seen order.
type suggestionSet struct {
	seen  map[string]bool
	items []string
}

func newSuggestionSet() *suggestionSet {
	return &suggestionSet{seen: make(map[string]bool), items: make([]string, 0)}
}

func (s *suggestionSet) add(text string) {
	if text == "" || s.seen[text] {
		return
	}
	s.seen[text] = true
	s.items = append(s.items, text)
}

// GenerateSuggestions turns detected problems and learned trends into a
// deduplicated list of recommendations.
func GenerateSuggestions(engine *LearningEngine, problems []models.Problem) []string {
	set := newSuggestionSet()
	for _, p := range problems {
		set.add(p.Sugestao)
	}
	proactiveSuggestions(engine, set)
	trendSuggestions(engine, set)
	productSuggestions(engine, set)
	return set.items
}

func proactiveSuggestions(e *LearningEngine, set *suggestionSet) {
	current := e.Current()

	if e.IsWithinPattern(MetricConversion) && current.Conversao < lowConversionPct {
		set.add("Sua conversão está dentro do padrão, mas abaixo de 3%: melhore as fotos e descrições dos produtos")
	}

	if top, ok := topSeller(current.ProdutosMaisVendidos); ok && top.Vendas > topSellerHighlightMin {
		set.add(fmt.Sprintf("%s vendeu %.0f unidades no período: destaque-o na vitrine e monte combos com ele",
			top.Produto, top.Vendas))
	}

	orders := e.Historical().Pedidos
	mean := e.Profile(MetricOrders).Media
	if len(orders) > 0 && mean > 0 && last(orders) > standoutWeekFactor*mean {
		set.add(fmt.Sprintf("A última semana teve %.0f pedidos, %.0f%% acima da média: repita as ações daquele período",
			last(orders), PctChange(last(orders), mean)))
	}
}

func trendSuggestions(e *LearningEngine, set *suggestionSet) {
	ordersSlope := e.Profile(MetricOrders).Tendencia
	if ordersSlope > ordersGrowthSlope {
		set.add("Os pedidos estão crescendo: reforce a equipe e o estoque para os horários de pico")
	}
	if ordersSlope < -ordersDeclineSlope {
		set.add("Os pedidos estão em queda nas últimas semanas: lance uma promoção e divulgue o cardápio nas redes sociais")
	}
	if e.Profile(MetricAbandonment).Tendencia > abandonmentRiseSlope {
		set.add("O abandono de carrinho vem subindo: revise taxas de entrega e o tempo estimado exibido no checkout")
	}
	if e.Profile(MetricConversion).Tendencia > conversionImproveSlope {
		set.add("A conversão está melhorando: mantenha as mudanças recentes no cardápio e nas promoções")
	}
}

func productSuggestions(e *LearningEngine, set *suggestionSet) {
	patterns := e.LearnProductPatterns()
	for _, p := range productSeries(e.Historical()) {
		if patterns[p.Produto].Tendencia > productGrowthSlope {
			set.add(fmt.Sprintf("%s está em alta (%+.0f%% no período): garanta estoque e destaque no cardápio",
				p.Produto, PctChange(last(p.Vendas), first(p.Vendas))))
		}
	}

	current := e.Current()
	if len(current.ProdutosMaisVendidos) >= menuReorgMinProducts && len(current.ProdutosMenosVendidos) >= menuReorgMinProducts {
		set.add("Reorganize o cardápio: coloque os mais vendidos no topo e revise a posição dos itens de menor saída")
	}

	var slow []string
	for _, p := range current.ProdutosMenosVendidos {
		if p.Vendas < comboMaxSales {
			slow = append(slow, p.Produto)
		}
	}
	if len(slow) >= comboMaxProducts {
		set.add(fmt.Sprintf("Crie um combo com %s e %s junto a um item popular para girar esses produtos",
			slow[0], slow[1]))
	}

	if len(current.ProdutosMaisVendidos) > 0 && len(current.ProdutosMenosVendidos) > 0 {
		topAvg := meanSales(current.ProdutosMaisVendidos, disparitySample)
		bottomAvg := meanSales(current.ProdutosMenosVendidos, disparitySample)
		if topAvg > disparityFactor*bottomAvg {
			set.add("Há grande disparidade entre os produtos mais e menos vendidos: considere enxugar o cardápio")
		}
	}
}

func topSeller(products []models.ProductSales) (models.ProductSales, bool) {
	if len(products) == 0 {
		return models.ProductSales{}, false
	}
	top := products[0]
	for _, p := range products[1:] {
		if p.Vendas > top.Vendas {
			top = p
		}
	}
	return top, true
}

// meanSales averages the first n entries of products.
func meanSales(products []models.ProductSales, n int) float64 {
	if len(products) < n {
		n = len(products)
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = products[i].Vendas
	}
	return Mean(values)
}
