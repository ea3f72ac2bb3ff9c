package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"essencia-backend/internal/domain"
	"essencia-backend/pkg/cache"
)

const localityCacheKeyPrefix = "freight:locality:"

// FreightUsecase resolves a destination postal code, a parcel weight and an
// order subtotal into a shipping quote. It is stateless apart from the
// locality cache and safe for concurrent callers.
type FreightUsecase struct {
	regionRepo       domain.RegionRepository
	directory        domain.PostalCodeDirectory
	cache            cache.CacheService
	cacheTTL         time.Duration
	directoryTimeout time.Duration
}

func NewFreightUsecase(
	regionRepo domain.RegionRepository,
	directory domain.PostalCodeDirectory,
	cacheService cache.CacheService,
	cacheTTL time.Duration,
	directoryTimeout time.Duration,
) *FreightUsecase {
	return &FreightUsecase{
		regionRepo:       regionRepo,
		directory:        directory,
		cache:            cacheService,
		cacheTTL:         cacheTTL,
		directoryTimeout: directoryTimeout,
	}
}

// CalculateFreight computes a quote for the given postal code. weightKg
// defaults to 1 when zero or negative; orderValue below zero is treated as 0.
//
// Failure modes surface as the domain sentinel errors; no retries happen
// here and no partial quote is ever returned.
func (uc *FreightUsecase) CalculateFreight(ctx context.Context, postalCode string, weightKg, orderValue float64) (*domain.FreightQuote, error) {
	code, err := domain.NormalizeCEP(postalCode)
	if err != nil {
		return nil, err
	}

	if weightKg <= 0 {
		weightKg = 1
	}
	if orderValue < 0 {
		orderValue = 0
	}

	locality, err := uc.resolveLocality(ctx, code)
	if err != nil {
		return nil, err
	}

	regions, err := uc.regionRepo.FindActiveByState(ctx, locality.State)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipping regions: %w", err)
	}
	if len(regions) == 0 {
		return nil, domain.ErrRegionNotServed
	}

	region, cityPrice := matchRegion(regions, locality)
	price, isFree := quotePrice(region, cityPrice, weightKg, orderValue)

	return &domain.FreightQuote{
		Price:        price,
		DeliveryTime: region.DeliveryTime,
		RegionName:   region.Name,
		IsFree:       isFree,
		Locality:     *locality,
	}, nil
}

// resolveLocality returns the cached locality for code, or performs a
// directory lookup bounded by the configured timeout and caches the result.
// The cache write happens on any successful lookup, even if a later step of
// the calculation fails; the entry is keyed only on the postal code.
func (uc *FreightUsecase) resolveLocality(ctx context.Context, code string) (*domain.Locality, error) {
	key := localityCacheKeyPrefix + code
	if v, ok := uc.cache.Get(key); ok {
		if loc, ok := v.(*domain.Locality); ok {
			return loc, nil
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, uc.directoryTimeout)
	defer cancel()

	locality, err := uc.directory.Lookup(lookupCtx, code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPostalCodeNotFound):
			return nil, domain.ErrPostalCodeNotFound
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, domain.ErrDirectoryTimeout):
			return nil, domain.ErrDirectoryTimeout
		default:
			return nil, fmt.Errorf("postal code lookup failed: %w", err)
		}
	}

	uc.cache.Set(key, locality, uc.cacheTTL)
	return locality, nil
}

// matchRegion selects the region to quote against and the city custom price
// when one applies.
//
// Candidates are ranked free-shipping-first, then cheapest base price, with
// a stable sort so equal candidates keep store order. The city-override scan
// runs over the ORIGINAL store order and takes precedence over that ranking:
// a region listing the destination city wins even when another region would
// rank first. Do not reorder these two steps; the precedence is observable
// through quoted prices.
func matchRegion(regions []domain.ShippingRegion, locality *domain.Locality) (*domain.ShippingRegion, *float64) {
	ranked := make([]*domain.ShippingRegion, len(regions))
	for i := range regions {
		ranked[i] = &regions[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].IsFreeShipping != ranked[j].IsFreeShipping {
			return ranked[i].IsFreeShipping
		}
		return ranked[i].BasePrice < ranked[j].BasePrice
	})

	for i := range regions {
		for j := range regions[i].Cities {
			city := &regions[i].Cities[j]
			if city.State == locality.State && strings.EqualFold(city.Name, locality.City) {
				return &regions[i], city.CustomPrice
			}
		}
	}

	return ranked[0], nil
}

// quotePrice applies the pricing rules of the selected region.
//
// Order matters: an always-free region wins outright, then the order-value
// threshold, then base (or city custom) price plus the per-kg surcharge on
// weight above 1 kg. The price is rounded to cents exactly once, at the end.
func quotePrice(region *domain.ShippingRegion, cityPrice *float64, weightKg, orderValue float64) (float64, bool) {
	if region.IsFreeShipping {
		return 0, true
	}
	if region.FreeShippingThreshold > 0 && orderValue >= region.FreeShippingThreshold {
		return 0, true
	}

	price := region.BasePrice
	if cityPrice != nil {
		price = *cityPrice
	}
	if weightKg > 1 {
		price += (weightKg - 1) * region.PricePerKg
	}

	return roundToCents(price), false
}

// roundToCents rounds half away from zero at the cent boundary.
func roundToCents(v float64) float64 {
	return math.Round(v*100) / 100
}
