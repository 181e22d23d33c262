// Package auth contiene los DTOs de /api/auth.
package auth

// LoginRequest es el cuerpo de POST /api/auth/login.
// Identifier acepta email o username.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Tenant     string `json:"tenant,omitempty"`
}

// SignupRequest es el cuerpo de POST /api/auth/signup.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Tenant   string `json:"tenant,omitempty"`
}

// AuthResponse se devuelve tras login o signup exitoso.
type AuthResponse struct {
	User  map[string]any `json:"user"`
	Role  string         `json:"role"`
	Token string         `json:"token"`
}

// MeResponse es la sesión decodificada.
type MeResponse struct {
	UserID    string `json:"userId"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role"`
	Tenant    string `json:"tenant,omitempty"`
	ExpiresAt int64  `json:"expiresAt"`
}
