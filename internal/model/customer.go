package model

import (
	"strings"
	"time"
)

// Customer is customer record entity
type Customer struct {
	ID               string    `json:"id" bson:"_id,omitempty"`
	Name             string    `json:"name" bson:"name"`
	Email            string    `json:"email" bson:"email"`
	Phone            string    `json:"phone" bson:"phone"`
	Address          string    `json:"address" bson:"address"`
	RegistrationDate time.Time `json:"registration_date" bson:"registration_date"`
	CreatedAt        time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" bson:"updated_at"`
}

// Matches reports whether customer name or email contains term as
// case-insensitive substring
func (c *Customer) Matches(term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(c.Name), t) ||
		strings.Contains(strings.ToLower(c.Email), t)
}

// Filter returns customers from page matching term. Empty term matches
// every customer. Filtering is applied to the provided page only, it
// never reaches back to the store
func Filter(page []*Customer, term string) []*Customer {
	if term == "" {
		return page
	}

	filtered := make([]*Customer, 0, len(page))
	for _, c := range page {
		if c.Matches(term) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
