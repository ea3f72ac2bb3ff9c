package domain

// AuthUser is the partial user constructed from JWT claims. The freight
// service keeps no user records; only the admin region routes care about it.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type contextKey string

// UserContextKey is the request-context key under which the authenticated
// user is stored by the auth middleware.
const UserContextKey contextKey = "authUser"
