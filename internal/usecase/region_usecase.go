package usecase

import (
	"context"
	"fmt"
	"strings"

	"essencia-backend/internal/domain"

	"github.com/google/uuid"
)

// RegionUsecase handles admin shipping-region management. It is the owning
// store of the region rule data, so the write-time invariants live here:
// states non-empty, and all price fields zeroed while a region is marked
// always-free.
type RegionUsecase struct {
	regionRepo domain.RegionRepository
}

func NewRegionUsecase(regionRepo domain.RegionRepository) *RegionUsecase {
	return &RegionUsecase{regionRepo: regionRepo}
}

// RegionCityInput mirrors domain.RegionCity for request payloads.
type RegionCityInput struct {
	Name        string   `json:"name"`
	State       string   `json:"state"`
	CustomPrice *float64 `json:"customPrice"`
}

// SaveRegionRequest is the input for creating or updating a region.
type SaveRegionRequest struct {
	Name                  string                `json:"name"`
	States                []string              `json:"states"`
	Cities                []RegionCityInput     `json:"cities"`
	BasePrice             float64               `json:"basePrice"`
	PricePerKg            float64               `json:"pricePerKg"`
	FreeShippingThreshold float64               `json:"freeShippingThreshold"`
	IsFreeShipping        bool                  `json:"isFreeShipping"`
	DeliveryTime          domain.DeliveryWindow `json:"deliveryTime"`
	IsActive              bool                  `json:"isActive"`
}

// CreateRegion creates a new shipping region with validation.
func (uc *RegionUsecase) CreateRegion(ctx context.Context, req SaveRegionRequest) (*domain.ShippingRegion, error) {
	region, err := uc.buildRegion(req)
	if err != nil {
		return nil, err
	}

	existing, _ := uc.regionRepo.GetByName(ctx, region.Name)
	if existing != nil {
		return nil, fmt.Errorf("region '%s' already exists", region.Name)
	}

	region.ID = uuid.New()
	if err := uc.regionRepo.Create(ctx, region); err != nil {
		return nil, fmt.Errorf("failed to create region: %w", err)
	}
	return region, nil
}

// UpdateRegion replaces an existing region's definition.
func (uc *RegionUsecase) UpdateRegion(ctx context.Context, id string, req SaveRegionRequest) (*domain.ShippingRegion, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid region ID")
	}

	existing, err := uc.regionRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, domain.ErrRegionNotFound
	}

	region, err := uc.buildRegion(req)
	if err != nil {
		return nil, err
	}

	// Check for duplicate name (if changed)
	if region.Name != existing.Name {
		dup, _ := uc.regionRepo.GetByName(ctx, region.Name)
		if dup != nil {
			return nil, fmt.Errorf("region '%s' already exists", region.Name)
		}
	}

	region.ID = uid
	if err := uc.regionRepo.Update(ctx, region); err != nil {
		return nil, fmt.Errorf("failed to update region: %w", err)
	}
	return region, nil
}

// SetRegionStatus activates or deactivates a region. Inactive regions are
// excluded from freight matching.
func (uc *RegionUsecase) SetRegionStatus(ctx context.Context, id string, active bool) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid region ID")
	}
	if _, err := uc.regionRepo.GetByID(ctx, uid); err != nil {
		return domain.ErrRegionNotFound
	}
	return uc.regionRepo.UpdateStatus(ctx, uid, active)
}

// GetRegion returns a single region by ID.
func (uc *RegionUsecase) GetRegion(ctx context.Context, id string) (*domain.ShippingRegion, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid region ID")
	}
	region, err := uc.regionRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, domain.ErrRegionNotFound
	}
	return region, nil
}

// ListRegions returns all regions, active and inactive.
func (uc *RegionUsecase) ListRegions(ctx context.Context) ([]domain.ShippingRegion, error) {
	regions, err := uc.regionRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return regions, nil
}

// DeleteRegion removes a region by ID.
func (uc *RegionUsecase) DeleteRegion(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid region ID")
	}
	if _, err := uc.regionRepo.GetByID(ctx, uid); err != nil {
		return domain.ErrRegionNotFound
	}
	return uc.regionRepo.Delete(ctx, uid)
}

// buildRegion validates and normalizes a request into a domain region.
func (uc *RegionUsecase) buildRegion(req SaveRegionRequest) (*domain.ShippingRegion, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("region name is required")
	}

	if len(req.States) == 0 {
		return nil, fmt.Errorf("region must cover at least one state")
	}
	states := make([]string, 0, len(req.States))
	seen := make(map[string]bool, len(req.States))
	for _, s := range req.States {
		state := strings.ToUpper(strings.TrimSpace(s))
		if len(state) != 2 {
			return nil, fmt.Errorf("invalid state code '%s'", s)
		}
		if !seen[state] {
			seen[state] = true
			states = append(states, state)
		}
	}

	if req.BasePrice < 0 || req.PricePerKg < 0 || req.FreeShippingThreshold < 0 {
		return nil, fmt.Errorf("prices cannot be negative")
	}

	if req.DeliveryTime.Min < 1 {
		return nil, fmt.Errorf("minimum delivery time must be at least 1 day")
	}
	if req.DeliveryTime.Max < req.DeliveryTime.Min {
		return nil, fmt.Errorf("maximum delivery time cannot be below the minimum")
	}

	cities := make([]domain.RegionCity, 0, len(req.Cities))
	for _, c := range req.Cities {
		cityName := strings.TrimSpace(c.Name)
		cityState := strings.ToUpper(strings.TrimSpace(c.State))
		if cityName == "" || len(cityState) != 2 {
			return nil, fmt.Errorf("city overrides require a name and a two-letter state code")
		}
		if !seen[cityState] {
			return nil, fmt.Errorf("city '%s' is in state '%s', which this region does not cover", cityName, cityState)
		}
		if c.CustomPrice != nil && *c.CustomPrice < 0 {
			return nil, fmt.Errorf("city custom price cannot be negative")
		}
		cities = append(cities, domain.RegionCity{
			Name:        cityName,
			State:       cityState,
			CustomPrice: c.CustomPrice,
		})
	}

	region := &domain.ShippingRegion{
		Name:                  name,
		States:                states,
		Cities:                cities,
		BasePrice:             req.BasePrice,
		PricePerKg:            req.PricePerKg,
		FreeShippingThreshold: req.FreeShippingThreshold,
		IsFreeShipping:        req.IsFreeShipping,
		DeliveryTime:          req.DeliveryTime,
		IsActive:              req.IsActive,
	}

	// Always-free regions carry no prices: the resolver treats them as zero,
	// and the store keeps the data consistent with that.
	if region.IsFreeShipping {
		region.BasePrice = 0
		region.PricePerKg = 0
		region.FreeShippingThreshold = 0
	}

	return region, nil
}
