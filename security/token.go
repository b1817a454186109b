package security

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"stafflow.com/stafflow/model"
)

// Identity is what the API layer knows about a caller once the token is
// verified. Role checks downstream rely on the Role claim only.
type Identity struct {
	UserID uint       `json:"uid"`
	Email  string     `json:"email"`
	Name   string     `json:"name"`
	Role   model.Role `json:"role"`
}

type IdentityClaims struct {
	Identity
	jwt.RegisteredClaims
}

// CreateIdentityToken issues an HS256 token for a user.
func CreateIdentityToken(user *model.User, secret []byte, ttl time.Duration) (string, error) {
	claims := IdentityClaims{
		Identity: Identity{
			UserID: user.ID,
			Email:  user.Email,
			Name:   user.FullName(),
			Role:   user.Role,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "stafflow",
			Subject:   user.EmployeeCode,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseIdentityToken verifies the signature and expiry and returns the
// embedded identity.
func ParseIdentityToken(tokenStr string, secret []byte) (*Identity, error) {
	var claims IdentityClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return &claims.Identity, nil
}
