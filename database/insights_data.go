package database

import (
	"context"
	"fmt"
	"time"

	"deliveryhub/models"
)

const productSampleSize = 5

// weekBucket is the number of whole weeks between $2 (the window end) and
// created_at, so bucket 0 is the newest week.
const weekBucket = `FLOOR(EXTRACT(EPOCH FROM ($2::timestamptz - %s)) / 604800)::int`

type bucketCount struct {
	Bucket int
	Value  float64
}

// fillBuckets lays per-week values out oldest first. Bucket 0 is the newest
// week and lands in the last slot; out of range buckets are dropped.
func fillBuckets(weeks int, counts []bucketCount) []float64 {
	if weeks < 0 {
		weeks = 0
	}
	series := make([]float64, weeks)
	for _, c := range counts {
		if c.Bucket < 0 || c.Bucket >= weeks {
			continue
		}
		series[weeks-1-c.Bucket] += c.Value
	}
	return series
}

// percentOf returns part as a percentage of whole, or 0 for an empty whole.
func percentOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// ratioSeries applies percentOf element-wise over two aligned series.
func ratioSeries(parts, wholes []float64) []float64 {
	out := make([]float64, len(parts))
	for i := range parts {
		if i < len(wholes) {
			out[i] = percentOf(parts[i], wholes[i])
		}
	}
	return out
}

func scanBuckets(ctx context.Context, q Querier, query string, args ...interface{}) ([]bucketCount, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]bucketCount, 0)
	for rows.Next() {
		var c bucketCount
		if err := rows.Scan(&c.Bucket, &c.Value); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// LoadHistoricalData builds weekly series for the weeks ending at now,
// oldest week first.
func LoadHistoricalData(ctx context.Context, q Querier, restaurantID string, weeks int, now time.Time) (models.HistoricalData, error) {
	start := now.AddDate(0, 0, -7*weeks)
	h := models.HistoricalData{Semanas: weeks}

	orderBuckets := fmt.Sprintf(weekBucket, "created_at")
	ordersQuery := `
		SELECT ` + orderBuckets + ` AS bucket, COUNT(*)::float8
		FROM orders
		WHERE restaurant_id = $1 AND created_at > $3 AND created_at <= $2
		GROUP BY bucket`
	orders, err := scanBuckets(ctx, q, ordersQuery, restaurantID, now, start)
	if err != nil {
		return h, fmt.Errorf("failed to load weekly orders: %w", err)
	}

	cancelledQuery := `
		SELECT ` + orderBuckets + ` AS bucket, COUNT(*)::float8
		FROM orders
		WHERE restaurant_id = $1 AND status = 'cancelled' AND created_at > $3 AND created_at <= $2
		GROUP BY bucket`
	cancelled, err := scanBuckets(ctx, q, cancelledQuery, restaurantID, now, start)
	if err != nil {
		return h, fmt.Errorf("failed to load weekly cancellations: %w", err)
	}

	cartsQuery := `
		SELECT ` + orderBuckets + ` AS bucket, COUNT(*)::float8
		FROM carts
		WHERE restaurant_id = $1 AND created_at > $3 AND created_at <= $2
		GROUP BY bucket`
	carts, err := scanBuckets(ctx, q, cartsQuery, restaurantID, now, start)
	if err != nil {
		return h, fmt.Errorf("failed to load weekly carts: %w", err)
	}

	abandonedQuery := `
		SELECT ` + orderBuckets + ` AS bucket, COUNT(*)::float8
		FROM carts
		WHERE restaurant_id = $1 AND status = 'abandoned' AND created_at > $3 AND created_at <= $2
		GROUP BY bucket`
	abandoned, err := scanBuckets(ctx, q, abandonedQuery, restaurantID, now, start)
	if err != nil {
		return h, fmt.Errorf("failed to load weekly abandoned carts: %w", err)
	}

	cartSeries := fillBuckets(weeks, carts)
	h.Pedidos = fillBuckets(weeks, orders)
	h.Cancelamentos = fillBuckets(weeks, cancelled)
	h.Abandonos = ratioSeries(fillBuckets(weeks, abandoned), cartSeries)
	h.Conversao = ratioSeries(h.Pedidos, cartSeries)

	top, err := rankProducts(ctx, q, restaurantID, start, now, "DESC")
	if err != nil {
		return h, err
	}
	bottom, err := rankProducts(ctx, q, restaurantID, start, now, "ASC")
	if err != nil {
		return h, err
	}
	if h.Produtos.MaisVendidos, err = productHistory(ctx, q, restaurantID, weeks, start, now, top); err != nil {
		return h, err
	}
	if h.Produtos.MenosVendidos, err = productHistory(ctx, q, restaurantID, weeks, start, now, bottom); err != nil {
		return h, err
	}
	return h, nil
}

// LoadCurrentData aggregates the last days days ending at now.
func LoadCurrentData(ctx context.Context, q Querier, restaurantID string, days int, now time.Time) (models.CurrentData, error) {
	start := now.AddDate(0, 0, -days)
	var c models.CurrentData

	var orders, cancelled, carts, abandoned float64
	ordersQuery := `
		SELECT COUNT(*)::float8, COUNT(*) FILTER (WHERE status = 'cancelled')::float8
		FROM orders
		WHERE restaurant_id = $1 AND created_at > $2 AND created_at <= $3`
	if err := q.QueryRow(ctx, ordersQuery, restaurantID, start, now).Scan(&orders, &cancelled); err != nil {
		return c, fmt.Errorf("failed to load current orders: %w", err)
	}

	cartsQuery := `
		SELECT COUNT(*)::float8, COUNT(*) FILTER (WHERE status = 'abandoned')::float8
		FROM carts
		WHERE restaurant_id = $1 AND created_at > $2 AND created_at <= $3`
	if err := q.QueryRow(ctx, cartsQuery, restaurantID, start, now).Scan(&carts, &abandoned); err != nil {
		return c, fmt.Errorf("failed to load current carts: %w", err)
	}

	c.PedidosTotal = orders
	c.Cancelamentos = cancelled
	c.Abandonos = percentOf(abandoned, carts)
	c.Conversao = percentOf(orders, carts)

	var err error
	if c.ProdutosMaisVendidos, err = rankProducts(ctx, q, restaurantID, start, now, "DESC"); err != nil {
		return c, err
	}
	if c.ProdutosMenosVendidos, err = rankProducts(ctx, q, restaurantID, start, now, "ASC"); err != nil {
		return c, err
	}
	return c, nil
}

// rankProducts returns the products with the most or fewest units sold in
// the window. direction is either ASC or DESC.
func rankProducts(ctx context.Context, q Querier, restaurantID string, start, end time.Time, direction string) ([]models.ProductSales, error) {
	if direction != "ASC" {
		direction = "DESC"
	}
	query := `
		SELECT oi.product_name, SUM(oi.quantity)::float8 AS sold
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.restaurant_id = $1 AND o.status <> 'cancelled' AND o.created_at > $2 AND o.created_at <= $3
		GROUP BY oi.product_name
		ORDER BY sold ` + direction + `, oi.product_name
		LIMIT $4`
	rows, err := q.Query(ctx, query, restaurantID, start, end, productSampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}
	defer rows.Close()

	products := make([]models.ProductSales, 0, productSampleSize)
	for rows.Next() {
		var p models.ProductSales
		if err := rows.Scan(&p.Produto, &p.Vendas); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// productHistory loads a weekly sales series for each of the given products,
// keeping their order.
func productHistory(ctx context.Context, q Querier, restaurantID string, weeks int, start, now time.Time, products []models.ProductSales) ([]models.ProductSeries, error) {
	series := make([]models.ProductSeries, 0, len(products))
	if len(products) == 0 {
		return series, nil
	}
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Produto
	}

	query := `
		SELECT oi.product_name, ` + fmt.Sprintf(weekBucket, "o.created_at") + ` AS bucket, SUM(oi.quantity)::float8
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.restaurant_id = $1 AND o.status <> 'cancelled' AND o.created_at > $3 AND o.created_at <= $2
			AND oi.product_name = ANY($4)
		GROUP BY oi.product_name, bucket`
	rows, err := q.Query(ctx, query, restaurantID, now, start, names)
	if err != nil {
		return nil, fmt.Errorf("failed to load product history: %w", err)
	}
	defer rows.Close()

	byProduct := make(map[string][]bucketCount, len(names))
	for rows.Next() {
		var name string
		var c bucketCount
		if err := rows.Scan(&name, &c.Bucket, &c.Value); err != nil {
			return nil, fmt.Errorf("failed to scan product history: %w", err)
		}
		byProduct[name] = append(byProduct[name], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return assembleProductSeries(names, byProduct, weeks), nil
}

func assembleProductSeries(names []string, byProduct map[string][]bucketCount, weeks int) []models.ProductSeries {
	series := make([]models.ProductSeries, 0, len(names))
	for _, name := range names {
		series = append(series, models.ProductSeries{
			Produto: name,
			Vendas:  fillBuckets(weeks, byProduct[name]),
		})
	}
	return series
}

// LoadFinancialSummary aggregates revenue for the last days days ending at now.
func LoadFinancialSummary(ctx context.Context, q Querier, restaurantID string, days int, now time.Time) (models.FinancialSummary, error) {
	start := now.AddDate(0, 0, -days)
	summary := models.FinancialSummary{PeriodoDias: days, PorPagamento: make([]models.PaymentBreakdown, 0)}

	totalsQuery := `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0)::float8,
			COUNT(*) FILTER (WHERE status <> 'cancelled'),
			COALESCE(SUM(total) FILTER (WHERE status = 'cancelled'), 0)::float8
		FROM orders
		WHERE restaurant_id = $1 AND created_at > $2 AND created_at <= $3`
	if err := q.QueryRow(ctx, totalsQuery, restaurantID, start, now).Scan(&summary.Receita, &summary.Pedidos, &summary.ReceitaCancelada); err != nil {
		return summary, fmt.Errorf("failed to load revenue totals: %w", err)
	}
	summary.TicketMedio = averageTicket(summary.Receita, summary.Pedidos)

	paymentsQuery := `
		SELECT payment_method, COALESCE(SUM(total), 0)::float8, COUNT(*)
		FROM orders
		WHERE restaurant_id = $1 AND status <> 'cancelled' AND created_at > $2 AND created_at <= $3
		GROUP BY payment_method
		ORDER BY 2 DESC`
	rows, err := q.Query(ctx, paymentsQuery, restaurantID, start, now)
	if err != nil {
		return summary, fmt.Errorf("failed to load revenue by payment method: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.PaymentBreakdown
		if err := rows.Scan(&p.Metodo, &p.Receita, &p.Pedidos); err != nil {
			return summary, fmt.Errorf("failed to scan payment method: %w", err)
		}
		summary.PorPagamento = append(summary.PorPagamento, p)
	}
	return summary, rows.Err()
}

func averageTicket(revenue float64, orders int) float64 {
	if orders == 0 {
		return 0
	}
	return revenue / float64(orders)
}

// RestaurantName looks up the display name of a restaurant.
func RestaurantName(ctx context.Context, q Querier, restaurantID string) (string, error) {
	var name string
	err := q.QueryRow(ctx, "SELECT name FROM restaurants WHERE id = $1", restaurantID).Scan(&name)
	if err != nil {
		return "", notFound(err)
	}
	return name, nil
}
