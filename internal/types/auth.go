package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the payload embedded in session tokens. The wire field names
// (id, email, username, roleId, roleName) are the cookie contract consumed
// by the browsing frontends; do not rename them.
type Claims struct {
	UserID               string `json:"id"`
	Email                string `json:"email"`
	Username             string `json:"username"`
	RoleID               string `json:"roleId"`
	RoleName             Role   `json:"roleName"`
	jwt.RegisteredClaims        // iat, exp, sub, iss
}
