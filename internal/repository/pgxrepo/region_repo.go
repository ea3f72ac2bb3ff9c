package pgxrepo

import (
	"context"
	"errors"
	"fmt"

	"essencia-backend/internal/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

const regionColumns = `id, name, states, cities, base_price, price_per_kg,
	free_shipping_threshold, is_free_shipping, delivery_min, delivery_max,
	is_active, created_at, updated_at`

type regionRepository struct {
	db *pgxpool.Pool
}

func NewRegionRepository(db *pgxpool.Pool) domain.RegionRepository {
	return &regionRepository{db: db}
}

// FindActiveByState returns active regions covering state ordered by
// (created_at, id). That insertion order is observable through the freight
// matcher's city-override scan, so the ORDER BY here must not change.
func (r *regionRepository) FindActiveByState(ctx context.Context, state string) ([]domain.ShippingRegion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+regionColumns+`
		FROM shipping_regions
		WHERE is_active = TRUE AND $1 = ANY(states)
		ORDER BY created_at, id`, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegions(rows)
}

func (r *regionRepository) GetAll(ctx context.Context) ([]domain.ShippingRegion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+regionColumns+`
		FROM shipping_regions
		ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegions(rows)
}

func (r *regionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ShippingRegion, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+regionColumns+`
		FROM shipping_regions
		WHERE id = $1`, id)
	return scanRegion(row)
}

func (r *regionRepository) GetByName(ctx context.Context, name string) (*domain.ShippingRegion, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+regionColumns+`
		FROM shipping_regions
		WHERE name = $1`, name)
	return scanRegion(row)
}

func (r *regionRepository) Create(ctx context.Context, region *domain.ShippingRegion) error {
	citiesJSON, err := json.Marshal(region.Cities)
	if err != nil {
		return fmt.Errorf("failed to encode cities: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO shipping_regions (
			id, name, states, cities, base_price, price_per_kg,
			free_shipping_threshold, is_free_shipping, delivery_min,
			delivery_max, is_active
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		region.ID, region.Name, region.States, citiesJSON,
		float64ToNumeric(region.BasePrice), float64ToNumeric(region.PricePerKg),
		float64ToNumeric(region.FreeShippingThreshold), region.IsFreeShipping,
		region.DeliveryTime.Min, region.DeliveryTime.Max, region.IsActive)
	return row.Scan(&region.CreatedAt, &region.UpdatedAt)
}

func (r *regionRepository) Update(ctx context.Context, region *domain.ShippingRegion) error {
	citiesJSON, err := json.Marshal(region.Cities)
	if err != nil {
		return fmt.Errorf("failed to encode cities: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		UPDATE shipping_regions
		SET name = $2, states = $3, cities = $4, base_price = $5,
			price_per_kg = $6, free_shipping_threshold = $7,
			is_free_shipping = $8, delivery_min = $9, delivery_max = $10,
			is_active = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`,
		region.ID, region.Name, region.States, citiesJSON,
		float64ToNumeric(region.BasePrice), float64ToNumeric(region.PricePerKg),
		float64ToNumeric(region.FreeShippingThreshold), region.IsFreeShipping,
		region.DeliveryTime.Min, region.DeliveryTime.Max, region.IsActive)
	if err := row.Scan(&region.CreatedAt, &region.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRegionNotFound
		}
		return err
	}
	return nil
}

func (r *regionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE shipping_regions
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRegionNotFound
	}
	return nil
}

func (r *regionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shipping_regions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRegionNotFound
	}
	return nil
}

// --- Scanners ---

func scanRegions(rows pgx.Rows) ([]domain.ShippingRegion, error) {
	var result []domain.ShippingRegion
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *region)
	}
	return result, rows.Err()
}

func scanRegion(row pgx.Row) (*domain.ShippingRegion, error) {
	var (
		region                      domain.ShippingRegion
		citiesJSON                  []byte
		basePrice, perKg, threshold pgtype.Numeric
	)

	err := row.Scan(
		&region.ID, &region.Name, &region.States, &citiesJSON,
		&basePrice, &perKg, &threshold, &region.IsFreeShipping,
		&region.DeliveryTime.Min, &region.DeliveryTime.Max,
		&region.IsActive, &region.CreatedAt, &region.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRegionNotFound
		}
		return nil, err
	}

	region.BasePrice = numericToFloat64(basePrice)
	region.PricePerKg = numericToFloat64(perKg)
	region.FreeShippingThreshold = numericToFloat64(threshold)

	if len(citiesJSON) > 0 {
		if err := json.Unmarshal(citiesJSON, &region.Cities); err != nil {
			return nil, fmt.Errorf("failed to decode cities: %w", err)
		}
	}

	return &region, nil
}
