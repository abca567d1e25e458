package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Payment struct {
	ID             gocql.UUID `json:"id"`
	OrderID        string     `json:"order_id,omitempty"`
	AccountID      string     `json:"account_id"`
	Amount         float64    `json:"amount"`
	TipAmount      float64    `json:"tip_amount,omitempty"`
	RefundedAmount float64    `json:"refunded_amount,omitempty"`
	Status         string     `json:"status"` // "pending", "paid", "completed", "failed", "cancelled", "refunded"
	Method         string     `json:"method"` // "telebirr", "chapa", "card", "cash"
	TransactionID  string     `json:"transaction_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TelebirrOrder représente une transaction Telebirr B2B/C2B en cours
type TelebirrOrder struct {
	OutTradeNo string    `json:"out_trade_no"`
	PrepayID   string    `json:"prepay_id"`
	OrderID    string    `json:"order_id"`
	Amount     float64   `json:"amount"`
	Channel    string    `json:"channel"` // "b2b" ou "c2b"
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
