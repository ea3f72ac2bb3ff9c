package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"essencia-backend/internal/domain"
	"essencia-backend/pkg/utils"
)

func adminGuard() http.Handler {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(AdminMiddleware(inner))
}

func mintToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.GenerateJWT("user-1", "user@example.com", role, time.Hour)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func TestAdminRouteGuard(t *testing.T) {
	utils.SetSecret("test-secret")

	tests := []struct {
		name       string
		authorize  func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "no token",
			authorize:  func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed token",
			authorize: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.jwt")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "non-admin role",
			authorize: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+mintToken(t, "customer"))
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "admin via header",
			authorize: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+mintToken(t, "admin"))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "admin via cookie",
			authorize: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: mintToken(t, "admin")})
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := adminGuard()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/regions", nil)
			tt.authorize(req)
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
		})
	}
}

func TestAuthMiddlewareBuildsUserFromClaims(t *testing.T) {
	utils.SetSecret("test-secret")

	var seen *domain.AuthUser
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(domain.UserContextKey).(*domain.AuthUser)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/regions", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "admin"))
	rec := httptest.NewRecorder()
	AuthMiddleware(inner).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rec.Code)
	}
	if seen == nil {
		t.Fatal("no user placed in request context")
	}
	if seen.ID != "user-1" || seen.Email != "user@example.com" || seen.Role != "admin" {
		t.Fatalf("got user %+v, want claims from the minted token", seen)
	}
}

func TestTokenFromWrongSecretRejected(t *testing.T) {
	utils.SetSecret("first-secret")
	token := mintToken(t, "admin")
	utils.SetSecret("second-secret")

	guard := adminGuard()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/regions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401 for a token signed with another key", rec.Code)
	}
}
