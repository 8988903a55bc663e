package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	RestaurantID string `json:"restaurantId"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is an account that can sign in to the dashboard.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	RestaurantID *string   `json:"restaurant_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// --- Alerts & Predictions ---

// Alert is a persisted high or critical problem shown to the owner.
type Alert struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	Tipo         string    `json:"tipo"`
	Gravidade    Severity  `json:"gravidade"`
	Mensagem     string    `json:"mensagem"`
	Sugestao     string    `json:"sugestao"`
	IsRead       bool      `json:"is_read"`
	CreatedAt    time.Time `json:"created_at"`
}

// PredictionRecord is a stored prediction for a given target date.
type PredictionRecord struct {
	ID            string    `json:"id"`
	RestaurantID  string    `json:"restaurant_id"`
	Tipo          string    `json:"tipo"`
	ValorPrevisto float64   `json:"valor_previsto"`
	Confianca     float64   `json:"confianca"`
	Tendencia     string    `json:"tendencia"`
	DataAlvo      time.Time `json:"data_alvo"`
	CreatedAt     time.Time `json:"created_at"`
}

// --- Assistant ---

// ChatMessage is one turn of an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

// PaymentBreakdown is revenue grouped by payment method.
type PaymentBreakdown struct {
	Metodo  string  `json:"metodo"`
	Receita float64 `json:"receita"`
	Pedidos int     `json:"pedidos"`
}

// FinancialSummary is the revenue context given to the financial assistant.
type FinancialSummary struct {
	PeriodoDias      int                `json:"periodo_dias"`
	Receita          float64            `json:"receita"`
	Pedidos          int                `json:"pedidos"`
	TicketMedio      float64            `json:"ticket_medio"`
	ReceitaCancelada float64            `json:"receita_cancelada"`
	PorPagamento     []PaymentBreakdown `json:"por_pagamento"`
}
