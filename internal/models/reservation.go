package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Reservation struct {
	ID            gocql.UUID `json:"id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	PartySize     int        `json:"party_size"`
	Date          string     `json:"date"` // "2025-01-31"
	Time          string     `json:"time"` // "19:30"
	TableNumber   int        `json:"table_number,omitempty"`
	Status        string     `json:"status"` // "pending", "confirmed", "seated", "completed", "cancelled", "no_show"
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
