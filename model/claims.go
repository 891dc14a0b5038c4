package model

import "github.com/golang-jwt/jwt/v5"

// AuthClaims is the payload embedded in both access and refresh tokens.
type AuthClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}
