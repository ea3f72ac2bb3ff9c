package domain

import "context"

// Locality is the resolved address data for a postal code. It is ephemeral:
// never persisted, only cached in memory keyed by canonical postal code.
type Locality struct {
	PostalCode   string `json:"postalCode"`
	State        string `json:"state"`
	City         string `json:"city"`
	Street       string `json:"street,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
}

// PostalCodeDirectory resolves a canonical (digits-only) postal code to a
// Locality via an external lookup. Implementations must honor the context
// deadline and return ErrPostalCodeNotFound when the code is unknown.
type PostalCodeDirectory interface {
	Lookup(ctx context.Context, code string) (*Locality, error)
}
