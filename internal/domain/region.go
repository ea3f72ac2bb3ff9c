package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RegionCity is an optional per-city price override inside a covered state.
// When CustomPrice is nil the region's BasePrice applies.
type RegionCity struct {
	Name        string   `json:"name"`
	State       string   `json:"state"`
	CustomPrice *float64 `json:"customPrice,omitempty"`
}

// DeliveryWindow is the estimated delivery range in days.
type DeliveryWindow struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ShippingRegion is a shipping zone covering one or more states, with its
// own pricing rules. Regions are long-lived reference data mutated only
// through the admin CRUD; the freight resolver only reads them.
//
// Invariant (enforced at write time, see RegionUsecase): BasePrice,
// PricePerKg and FreeShippingThreshold are forced to 0 whenever
// IsFreeShipping is true, and States is never empty.
type ShippingRegion struct {
	ID                    uuid.UUID      `json:"id"`
	Name                  string         `json:"name"`
	States                []string       `json:"states"`
	Cities                []RegionCity   `json:"cities"`
	BasePrice             float64        `json:"basePrice"`
	PricePerKg            float64        `json:"pricePerKg"`
	FreeShippingThreshold float64        `json:"freeShippingThreshold"`
	IsFreeShipping        bool           `json:"isFreeShipping"`
	DeliveryTime          DeliveryWindow `json:"deliveryTime"`
	IsActive              bool           `json:"isActive"`
	CreatedAt             time.Time      `json:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt"`
}

// CoversState reports whether the region covers the given state code.
func (r *ShippingRegion) CoversState(state string) bool {
	for _, s := range r.States {
		if s == state {
			return true
		}
	}
	return false
}

type RegionRepository interface {
	// FindActiveByState returns active regions covering the given state in
	// insertion order (created_at, id). The freight resolver's city-override
	// scan depends on this ordering, so it is part of the contract.
	FindActiveByState(ctx context.Context, state string) ([]ShippingRegion, error)
	GetAll(ctx context.Context) ([]ShippingRegion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ShippingRegion, error)
	GetByName(ctx context.Context, name string) (*ShippingRegion, error)
	Create(ctx context.Context, region *ShippingRegion) error
	Update(ctx context.Context, region *ShippingRegion) error
	UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}
