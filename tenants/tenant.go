package tenants

import (
	"fmt"
	"strings"
	"time"
)

// Theme is the dashboard colour scheme a tenant has picked.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	identifierMinLength = 3
	identifierMaxLength = 100
)

// Tenant is a company account isolated from all others, identified by a
// unique human-readable identifier chosen at signup. The authentication core
// only ever reads a Tenant; mutation happens through administrative tooling
// outside this service.
type Tenant struct {
	ID             string    `json:"id,omitempty"`         // Unique identifier (UUID)
	Identifier     string    `json:"identifier,omitempty"` // Unique human-readable identifier (3-100 chars)
	PasswordHash   string    `json:"-"`                    // Hashed login credential - never serialize
	Name           string    `json:"name,omitempty"`       // Display name
	Active         bool      `json:"isActive"`             // Whether the tenant may authenticate
	Logo           string    `json:"logo,omitempty"`
	PrimaryColor   string    `json:"primaryColor,omitempty"`
	SecondaryColor string    `json:"secondaryColor,omitempty"`
	Theme          Theme     `json:"theme,omitempty"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

// Summary is the client-facing shape of a Tenant returned from auth endpoints.
type Summary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Identifier     string `json:"identifier"`
	Active         bool   `json:"isActive"`
	Logo           string `json:"logo,omitempty"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	Theme          Theme  `json:"theme,omitempty"`
}

// Summary returns the client-facing view of the tenant.
func (t *Tenant) Summary() Summary {
	return Summary{
		ID:             t.ID,
		Name:           t.Name,
		Identifier:     t.Identifier,
		Active:         t.Active,
		Logo:           t.Logo,
		PrimaryColor:   t.PrimaryColor,
		SecondaryColor: t.SecondaryColor,
		Theme:          t.Theme,
	}
}

// ValidateIdentifier checks that a tenant identifier meets the directory's
// key requirements. Uniqueness itself is enforced at the storage boundary.
func ValidateIdentifier(identifier string) error {
	identifier = strings.TrimSpace(identifier)
	if len(identifier) < identifierMinLength || len(identifier) > identifierMaxLength {
		return fmt.Errorf("identifier must be between %d and %d characters", identifierMinLength, identifierMaxLength)
	}
	return nil
}
