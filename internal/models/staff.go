package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Staff struct {
	ID         gocql.UUID `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Role       string     `json:"role"` // "manager", "waiter", "chef", "cashier", "host"
	Password   string     `json:"-"`
	ShiftStart string     `json:"shift_start,omitempty"` // "08:00"
	ShiftEnd   string     `json:"shift_end,omitempty"`   // "17:00"
	IsActive   bool       `json:"is_active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
