package usecase

import (
	"context"
	"strings"
	"testing"

	"essencia-backend/internal/domain"

	"github.com/google/uuid"
)

// memRegionRepo is an in-memory RegionRepository for usecase tests.
type memRegionRepo struct {
	byID map[uuid.UUID]*domain.ShippingRegion
}

func newMemRegionRepo() *memRegionRepo {
	return &memRegionRepo{byID: make(map[uuid.UUID]*domain.ShippingRegion)}
}

func (m *memRegionRepo) FindActiveByState(_ context.Context, state string) ([]domain.ShippingRegion, error) {
	var out []domain.ShippingRegion
	for _, r := range m.byID {
		if r.IsActive && r.CoversState(state) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRegionRepo) GetAll(context.Context) ([]domain.ShippingRegion, error) {
	out := make([]domain.ShippingRegion, 0, len(m.byID))
	for _, r := range m.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (m *memRegionRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.ShippingRegion, error) {
	if r, ok := m.byID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, domain.ErrRegionNotFound
}

func (m *memRegionRepo) GetByName(_ context.Context, name string) (*domain.ShippingRegion, error) {
	for _, r := range m.byID {
		if r.Name == name {
			copied := *r
			return &copied, nil
		}
	}
	return nil, domain.ErrRegionNotFound
}

func (m *memRegionRepo) Create(_ context.Context, region *domain.ShippingRegion) error {
	copied := *region
	m.byID[region.ID] = &copied
	return nil
}

func (m *memRegionRepo) Update(_ context.Context, region *domain.ShippingRegion) error {
	if _, ok := m.byID[region.ID]; !ok {
		return domain.ErrRegionNotFound
	}
	copied := *region
	m.byID[region.ID] = &copied
	return nil
}

func (m *memRegionRepo) UpdateStatus(_ context.Context, id uuid.UUID, active bool) error {
	r, ok := m.byID[id]
	if !ok {
		return domain.ErrRegionNotFound
	}
	r.IsActive = active
	return nil
}

func (m *memRegionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrRegionNotFound
	}
	delete(m.byID, id)
	return nil
}

func validRegionRequest() SaveRegionRequest {
	return SaveRegionRequest{
		Name:         "Sudeste",
		States:       []string{"SP", "RJ"},
		BasePrice:    18.90,
		PricePerKg:   2.50,
		DeliveryTime: domain.DeliveryWindow{Min: 2, Max: 5},
		IsActive:     true,
	}
}

func TestCreateRegionFreeShippingZeroesPrices(t *testing.T) {
	uc := NewRegionUsecase(newMemRegionRepo())

	req := validRegionRequest()
	req.IsFreeShipping = true
	req.BasePrice = 18.90
	req.PricePerKg = 2.50
	req.FreeShippingThreshold = 150

	region, err := uc.CreateRegion(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if region.BasePrice != 0 || region.PricePerKg != 0 || region.FreeShippingThreshold != 0 {
		t.Fatalf("free-shipping region kept prices: %+v", region)
	}
	if !region.IsFreeShipping {
		t.Fatal("expected IsFreeShipping to stick")
	}
}

func TestCreateRegionNormalizesStateCodes(t *testing.T) {
	uc := NewRegionUsecase(newMemRegionRepo())

	req := validRegionRequest()
	req.States = []string{" sp ", "rj", "SP"}

	region, err := uc.CreateRegion(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(region.States) != 2 || region.States[0] != "SP" || region.States[1] != "RJ" {
		t.Fatalf("got states %v, want deduplicated uppercase [SP RJ]", region.States)
	}
}

func TestCreateRegionValidation(t *testing.T) {
	uc := NewRegionUsecase(newMemRegionRepo())
	negative := -1.0

	tests := []struct {
		name    string
		mutate  func(*SaveRegionRequest)
		wantMsg string
	}{
		{"empty name", func(r *SaveRegionRequest) { r.Name = "  " }, "name is required"},
		{"no states", func(r *SaveRegionRequest) { r.States = nil }, "at least one state"},
		{"bad state code", func(r *SaveRegionRequest) { r.States = []string{"SAO"} }, "invalid state code"},
		{"negative price", func(r *SaveRegionRequest) { r.BasePrice = -5 }, "cannot be negative"},
		{"zero delivery min", func(r *SaveRegionRequest) { r.DeliveryTime.Min = 0 }, "at least 1 day"},
		{"max below min", func(r *SaveRegionRequest) { r.DeliveryTime = domain.DeliveryWindow{Min: 5, Max: 2} }, "cannot be below"},
		{"city outside region", func(r *SaveRegionRequest) {
			r.Cities = []RegionCityInput{{Name: "Curitiba", State: "PR"}}
		}, "does not cover"},
		{"negative city price", func(r *SaveRegionRequest) {
			r.Cities = []RegionCityInput{{Name: "Santos", State: "SP", CustomPrice: &negative}}
		}, "cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegionRequest()
			tt.mutate(&req)
			_, err := uc.CreateRegion(context.Background(), req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("got error %q, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestCreateRegionRejectsDuplicateName(t *testing.T) {
	uc := NewRegionUsecase(newMemRegionRepo())

	if _, err := uc.CreateRegion(context.Background(), validRegionRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.CreateRegion(context.Background(), validRegionRequest()); err == nil {
		t.Fatal("expected duplicate name to be rejected")
	}
}

func TestUpdateRegionKeepsID(t *testing.T) {
	repo := newMemRegionRepo()
	uc := NewRegionUsecase(repo)

	created, err := uc.CreateRegion(context.Background(), validRegionRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := validRegionRequest()
	req.Name = "Sudeste Expandido"
	req.States = []string{"SP", "RJ", "MG"}

	updated, err := uc.UpdateRegion(context.Background(), created.ID.String(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update changed the region ID: %s -> %s", created.ID, updated.ID)
	}
	if updated.Name != "Sudeste Expandido" || len(updated.States) != 3 {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestSetRegionStatus(t *testing.T) {
	repo := newMemRegionRepo()
	uc := NewRegionUsecase(repo)

	created, err := uc.CreateRegion(context.Background(), validRegionRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := uc.SetRegionStatus(context.Background(), created.ID.String(), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := uc.GetRegion(context.Background(), created.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.IsActive {
		t.Fatal("expected region to be deactivated")
	}

	// Deactivated regions disappear from freight matching.
	active, err := repo.FindActiveByState(context.Background(), "SP")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("got %d active regions, want 0", len(active))
	}
}

func TestDeleteRegionUnknownID(t *testing.T) {
	uc := NewRegionUsecase(newMemRegionRepo())

	if err := uc.DeleteRegion(context.Background(), uuid.NewString()); err == nil {
		t.Fatal("expected an error for an unknown region")
	}
	if err := uc.DeleteRegion(context.Background(), "not-a-uuid"); err == nil {
		t.Fatal("expected an error for a malformed ID")
	}
}
