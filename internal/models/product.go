package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductDB represents a product row in the database
type ProductDB struct {
	ProductID   uuid.UUID `json:"id" db:"product_id"`         // Unique product identifier, generated on creation
	Name        string    `json:"name" db:"name"`             // Globally unique name, max 120 characters
	Description *string   `json:"description" db:"description"` // Optional description
	Price       float64   `json:"price" db:"price"`           // Price, always >= 1
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"` // Identifier of the owning user
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // Timestamp set once at creation
}
