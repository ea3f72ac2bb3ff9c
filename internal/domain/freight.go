package domain

import "errors"

// Freight calculation failure modes. All are expected, recoverable-by-caller
// conditions; the HTTP layer maps them to status codes.
var (
	ErrInvalidPostalCode  = errors.New("invalid postal code format")
	ErrPostalCodeNotFound = errors.New("postal code not found")
	ErrDirectoryTimeout   = errors.New("postal code lookup timed out")
	ErrRegionNotServed    = errors.New("no shipping region serves this destination")
	ErrRegionNotFound     = errors.New("shipping region not found")
)

// FreightQuote is the output of a freight calculation. Quotes are pure
// computed values with no identity beyond the request that produced them.
type FreightQuote struct {
	Price        float64        `json:"price"`
	DeliveryTime DeliveryWindow `json:"deliveryTime"`
	RegionName   string         `json:"regionName"`
	IsFree       bool           `json:"isFree"`
	Locality     Locality       `json:"locality"`
}
