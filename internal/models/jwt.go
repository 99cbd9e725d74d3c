package models

import "github.com/golang-jwt/jwt/v5"

// Role identifies a caller's role in the marketplace
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleEntrepreneur Role = "entrepreneur"
	RoleInvestor     Role = "investor"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEntrepreneur, RoleInvestor:
		return true
	}
	return false
}

// AccessClaims are the JWT claims issued at login
type AccessClaims struct {
	Role  Role   `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// EmailTokenClaims are the short-lived claims used for email verification
// and password reset links
type EmailTokenClaims struct {
	Purpose string `json:"purpose"` // verify_email or reset_password
	Email   string `json:"email"`
	jwt.RegisteredClaims
}
