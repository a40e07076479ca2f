// Package session owns who is logged in: the bearer token and the user it
// belongs to. Both live and die together, in memory and in storage.
package session

import (
	"strings"
	"time"

	"go-hrm/internal/auth"
	"go-hrm/internal/rbac"
	"go-hrm/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
}

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Validate runs the login form rules. A failure never reaches the network.
func (c Credentials) Validate() error {
	c.Email = strings.TrimSpace(c.Email)
	return apperror.Validate(c)
}

func userFromResponse(u auth.UserResponse) User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  rbac.ParseRole(u.Role),
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the client
// never holds the signing key. Opaque tokens report ok=false.
func tokenExpiry(token string) (time.Time, bool) {
	if strings.Count(token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
