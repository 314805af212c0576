// Package models - JwtToken thuộc domain auth.
package models

import "github.com/golang-jwt/jwt/v5"

// JwtToken chứa data được mã hóa trong JWT token.
type JwtToken struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
