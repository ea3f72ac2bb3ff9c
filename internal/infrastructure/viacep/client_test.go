package viacep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"essencia-backend/internal/domain"
)

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws/01001000/json/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cep": "01001-000",
			"logradouro": "Praça da Sé",
			"bairro": "Sé",
			"localidade": "São Paulo",
			"uf": "SP"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	loc, err := c.Lookup(context.Background(), "01001000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.State != "SP" || loc.City != "São Paulo" {
		t.Fatalf("got locality %+v, want SP / São Paulo", loc)
	}
	if loc.PostalCode != "01001000" {
		t.Fatalf("got postal code %q, want canonical form", loc.PostalCode)
	}
	if loc.Street != "Praça da Sé" || loc.Neighborhood != "Sé" {
		t.Fatalf("address fields not mapped: %+v", loc)
	}
}

func TestLookupUnknownCode(t *testing.T) {
	// ViaCEP signals an unknown code with HTTP 200 and an "erro" marker,
	// historically a bool and more recently the string "true".
	for _, body := range []string{`{"erro": true}`, `{"erro": "true"}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))

		c := NewClient(srv.URL)
		_, err := c.Lookup(context.Background(), "99999999")
		srv.Close()
		if !errors.Is(err, domain.ErrPostalCodeNotFound) {
			t.Fatalf("body %s: got err=%v, want ErrPostalCodeNotFound", body, err)
		}
	}
}

func TestLookupRejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Lookup(context.Background(), "00000000")
	if !errors.Is(err, domain.ErrPostalCodeNotFound) {
		t.Fatalf("got err=%v, want ErrPostalCodeNotFound", err)
	}
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Lookup(context.Background(), "01001000")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if errors.Is(err, domain.ErrPostalCodeNotFound) || errors.Is(err, domain.ErrDirectoryTimeout) {
		t.Fatalf("500 must not map to a typed lookup failure, got %v", err)
	}
}

func TestLookupTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(srv.URL)
	_, err := c.Lookup(ctx, "01001000")
	if !errors.Is(err, domain.ErrDirectoryTimeout) {
		t.Fatalf("got err=%v, want ErrDirectoryTimeout", err)
	}
}
