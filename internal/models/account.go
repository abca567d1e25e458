package models

import "time"

type Account struct {
	ID            string    `json:"id"`
	PhoneNumber   string    `json:"phone_number"`
	Name          string    `json:"name,omitempty"`
	Email         string    `json:"email,omitempty"`
	Balance       float64   `json:"balance"`
	LoyaltyPoints int       `json:"loyalty_points"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoyaltyEntry trace chaque mouvement de points (gain ou utilisation)
type LoyaltyEntry struct {
	AccountID string    `json:"account_id"`
	OrderID   string    `json:"order_id,omitempty"`
	Points    int       `json:"points"` // négatif = utilisation
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
