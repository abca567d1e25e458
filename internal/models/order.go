package models

import (
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
)

type Order struct {
	ID              gocql.UUID  `json:"id"`
	AccountID       string      `json:"account_id"`
	Items           []OrderItem `json:"items"`
	SubTotal        float64     `json:"sub_total"`
	ServiceFee      float64     `json:"service_fee"`
	DeliveryFee     float64     `json:"delivery_fee"`
	Tax             float64     `json:"tax"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"` // "pending", "confirmed", "preparing", "ready", "delivered", "cancelled"
	OrderType       string      `json:"order_type"` // "dine_in", "takeaway", "delivery"
	TableNumber     int         `json:"table_number,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	DeliveryAddress string      `json:"delivery_address,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	PaymentID       string      `json:"payment_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// EncodeOrderItems sérialise les lignes pour la colonne text de ScyllaDB
func EncodeOrderItems(items []OrderItem) string {
	data, _ := json.Marshal(items)
	return string(data)
}

// DecodeOrderItems relit la colonne text ; contenu invalide = liste vide
func DecodeOrderItems(data string) []OrderItem {
	var items []OrderItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return []OrderItem{}
	}
	return items
}

type OrderItem struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Notes    string  `json:"notes,omitempty"`
}
