package domain

import (
	"errors"
	"time"
)

// Category is an expense category scoped to one organization. Names are
// unique per organization, case-sensitive. Deleting a category cascades to
// the policies that reference it.
type Category struct {
	ID          string
	OrgID       string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Validate validates the category for persistence. Returns an error describing the first validation failure.
func (c *Category) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
