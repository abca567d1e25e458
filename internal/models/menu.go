package models

import (
	"time"

	"github.com/gocql/gocql"
)

type MenuCategory struct {
	ID          gocql.UUID `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
}

type MenuItem struct {
	ID          gocql.UUID `json:"id"`
	CategoryID  gocql.UUID `json:"category_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	ImageURL    string     `json:"image_url,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Available   bool       `json:"available"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
