package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"deliveryhub/models"
)

// SavePredictions upserts one row per metric keyed by the date the
// prediction targets.
func SavePredictions(ctx context.Context, db Beginner, restaurantID string, predictions []models.Prediction, predictionDate time.Time) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO predictions (id, restaurant_id, metric, predicted_value, confidence, trend, target_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (restaurant_id, metric, target_date)
		DO UPDATE SET predicted_value = EXCLUDED.predicted_value,
			confidence = EXCLUDED.confidence,
			trend = EXCLUDED.trend,
			created_at = NOW()`
	for _, p := range predictions {
		_, err := tx.Exec(ctx, query,
			uuid.New().String(), restaurantID, p.Tipo, p.ValorPrevisto, p.Confianca, string(p.Tendencia),
			targetDate(predictionDate, p.DiasAFrente))
		if err != nil {
			return fmt.Errorf("failed to save prediction %s: %w", p.Tipo, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit predictions: %w", err)
	}
	return nil
}

func targetDate(from time.Time, daysAhead int) time.Time {
	y, m, d := from.AddDate(0, 0, daysAhead).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// alertWorthy keeps the problems severe enough to notify the owner.
func alertWorthy(problems []models.Problem) []models.Problem {
	out := make([]models.Problem, 0, len(problems))
	for _, p := range problems {
		if p.Gravidade.Rank() >= models.SeverityHigh.Rank() {
			out = append(out, p)
		}
	}
	return out
}

// SaveAlerts stores the high and critical problems and returns how many
// rows were written. A problem type that already has an unread alert from
// the last day is skipped.
func SaveAlerts(ctx context.Context, q Querier, restaurantID string, problems []models.Problem) (int, error) {
	query := `
		INSERT INTO alerts (id, restaurant_id, alert_type, severity, message, suggestion, is_read, created_at)
		SELECT $1, $2, $3, $4, $5, $6, FALSE, NOW()
		WHERE NOT EXISTS (
			SELECT 1 FROM alerts
			WHERE restaurant_id = $2 AND alert_type = $3 AND is_read = FALSE
				AND created_at > NOW() - INTERVAL '1 day'
		)`
	saved := 0
	for _, p := range alertWorthy(problems) {
		res, err := q.Exec(ctx, query, uuid.New().String(), restaurantID, p.Tipo, string(p.Gravidade), p.Mensagem, p.Sugestao)
		if err != nil {
			return saved, fmt.Errorf("failed to save alert %s: %w", p.Tipo, err)
		}
		saved += int(res.RowsAffected())
	}
	return saved, nil
}

// ListAlerts returns one page of alerts, newest first, with the total count.
func ListAlerts(ctx context.Context, q Querier, restaurantID string, page, pageSize int, unreadOnly bool) ([]models.Alert, int, error) {
	filter := "WHERE restaurant_id = $1"
	if unreadOnly {
		filter += " AND is_read = FALSE"
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM alerts "+filter, restaurantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	query := `
		SELECT id, restaurant_id, alert_type, severity, message, suggestion, is_read, created_at
		FROM alerts ` + filter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := q.Query(ctx, query, restaurantID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]models.Alert, 0)
	for rows.Next() {
		var a models.Alert
		var severity string
		if err := rows.Scan(&a.ID, &a.RestaurantID, &a.Tipo, &severity, &a.Mensagem, &a.Sugestao, &a.IsRead, &a.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Gravidade = models.Severity(severity)
		alerts = append(alerts, a)
	}
	return alerts, total, rows.Err()
}

// CountUnreadAlerts counts the alerts the owner has not read yet.
func CountUnreadAlerts(ctx context.Context, q Querier, restaurantID string) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM alerts WHERE restaurant_id = $1 AND is_read = FALSE"
	if err := q.QueryRow(ctx, query, restaurantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread alerts: %w", err)
	}
	return count, nil
}

// MarkAlertRead flags an alert as read. It returns ErrNotFound when the alert
// does not exist or belongs to another restaurant.
func MarkAlertRead(ctx context.Context, q Querier, restaurantID, alertID string) error {
	if _, err := uuid.Parse(alertID); err != nil {
		return ErrNotFound
	}
	res, err := q.Exec(ctx, "UPDATE alerts SET is_read = TRUE WHERE id = $1 AND restaurant_id = $2", alertID, restaurantID)
	if err != nil {
		return fmt.Errorf("failed to mark alert as read: %w", err)
	}
	if res.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPredictions returns the stored predictions with the latest target
// dates first.
func ListPredictions(ctx context.Context, q Querier, restaurantID string, limit int) ([]models.PredictionRecord, error) {
	query := `
		SELECT id, restaurant_id, metric, predicted_value, confidence, trend, target_date, created_at
		FROM predictions
		WHERE restaurant_id = $1
		ORDER BY target_date DESC, metric
		LIMIT $2`
	rows, err := q.Query(ctx, query, restaurantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	records := make([]models.PredictionRecord, 0)
	for rows.Next() {
		var r models.PredictionRecord
		if err := rows.Scan(&r.ID, &r.RestaurantID, &r.Tipo, &r.ValorPrevisto, &r.Confianca, &r.Tendencia, &r.DataAlvo, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// FindUserByEmail returns the active or inactive user with the given email
// together with its password hash.
func FindUserByEmail(ctx context.Context, q Querier, email string) (models.User, string, error) {
	var user models.User
	var passwordHash string
	query := `
		SELECT id, name, email, password_hash, role, is_active, restaurant_id, created_at, updated_at
		FROM users
		WHERE email = $1`
	err := q.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &passwordHash, &user.Role, &user.IsActive,
		&user.RestaurantID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return user, "", notFound(err)
	}
	return user, passwordHash, nil
}
