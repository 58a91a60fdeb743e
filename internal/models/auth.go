package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims represents the JWT payload for operator access tokens.
type JWTClaims struct {
	Subject string   `json:"sub_name"`
	Role    UserRole `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is returned by the token CLI.
type IssuedToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}
