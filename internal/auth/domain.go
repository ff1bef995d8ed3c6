package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are carried by every issued token. The password hash is never included.
type Claims struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Token is the result of a successful login.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
