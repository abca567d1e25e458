package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Table struct {
	ID        gocql.UUID `json:"id"`
	Number    int        `json:"number"`
	Seats     int        `json:"seats"`
	State     string     `json:"state"` // "free", "occupied", "reserved"
	WaiterID  string     `json:"waiter_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableSession est créée quand un client scanne le QR code de la table
type TableSession struct {
	ID          string    `json:"id"`
	TableID     string    `json:"table_id"`
	TableNumber int       `json:"table_number"`
	MenuURL     string    `json:"menu_url"`
	CreatedAt   time.Time `json:"created_at"`
}
