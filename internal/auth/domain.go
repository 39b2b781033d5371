package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User represents an account that may authenticate against the API.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
}

// Claims is the JWT payload carried by bearer tokens.
type Claims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}
