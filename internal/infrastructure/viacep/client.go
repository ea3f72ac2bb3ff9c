package viacep

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"essencia-backend/internal/domain"

	"github.com/goccy/go-json"
)

// Client resolves Brazilian postal codes (CEP) against the public ViaCEP
// API. It implements domain.PostalCodeDirectory; the caller owns the lookup
// deadline through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// lookupResponse mirrors ViaCEP's JSON. Unknown codes come back as HTTP 200
// with an "erro" marker, which older deployments emit as a bool and newer
// ones as the string "true".
type lookupResponse struct {
	CEP          string    `json:"cep"`
	Street       string    `json:"logradouro"`
	Neighborhood string    `json:"bairro"`
	City         string    `json:"localidade"`
	State        string    `json:"uf"`
	Erro         erroField `json:"erro"`
}

type erroField bool

func (e *erroField) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", `"true"`:
		*e = true
	default:
		*e = false
	}
	return nil
}

// Lookup fetches the locality for a canonical (8-digit) postal code.
func (c *Client) Lookup(ctx context.Context, code string) (*domain.Locality, error) {
	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.ErrDirectoryTimeout
		}
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decoding
	case http.StatusBadRequest:
		// ViaCEP rejects malformed codes outright; canonical codes should
		// never hit this, but treat it as an unknown code rather than a bug.
		return nil, domain.ErrPostalCodeNotFound
	default:
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}

	if bool(body.Erro) {
		return nil, domain.ErrPostalCodeNotFound
	}

	return &domain.Locality{
		PostalCode:   code,
		State:        body.State,
		City:         body.City,
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
	}, nil
}
