package models

import "github.com/golang-jwt/jwt/v5"

// StaffClaims is the JWT payload issued to desk staff sessions.
type StaffClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
