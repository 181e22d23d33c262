// Package auth contiene el login y signup contra el CMS y la emisión de la
// sesión propia del POS.
package auth

import (
	"context"
	"time"

	dto "github.com/dropDatabas3/restopos/internal/http/dto/auth"
	"github.com/dropDatabas3/restopos/internal/session"
)

// Result es una autenticación exitosa.
type Result struct {
	Session   session.Session
	Token     string
	ExpiresAt time.Time
	User      map[string]any
}

// AuthService define login y signup.
type AuthService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*Result, error)
	Signup(ctx context.Context, in dto.SignupRequest) (*Result, error)
}
