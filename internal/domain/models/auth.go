package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload issued to signed-in users.
// The numeric user id travels in the "id" claim; older tokens only carry it in "sub".
type Claims struct {
	jwt.RegisteredClaims
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// GetUserID returns the numeric user id, falling back to the subject claim.
// Returns 0 if neither holds a positive id.
func (c *Claims) GetUserID() int64 {
	if c.ID > 0 {
		return c.ID
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
