// Package shop provides the Shop catalog: the retail locations that own
// stock positions, sales and transfers.
package shop

import (
	"context"
	"time"

	"github.com/tentenpanashe01/retail-backend/internal/core/apperror"
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// Shop represents one retail location.
type Shop struct {
	ID            id.ID     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Location      string    `db:"location" json:"location,omitempty"`
	ContactNumber string    `db:"contact_number" json:"contactNumber,omitempty"`
	ManagerName   string    `db:"manager_name" json:"managerName,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// NewShop creates a new Shop with required fields.
func NewShop(name string) *Shop {
	return &Shop{
		ID:        id.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks required fields.
func (s *Shop) Validate(ctx context.Context) error {
	if s.Name == "" {
		return apperror.NewValidation("shop name is required").
			WithDetail("field", "name")
	}
	return nil
}
