package utils // package utils provides token signing and password hashing helpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim.  ADMIN may reset the event and edit
// the menu; OPERATOR runs the sales desk and the entrance.
const (
	RoleAdmin    = "ADMIN"
	RoleOperator = "OPERATOR"
)

// AccessToken is a signed JWT along with its expiry.
type AccessToken struct {
	Token string    `json:"access_token"`
	Exp   time.Time `json:"expires_at"`
}

// NewAccessToken signs an HS256 JWT for an operator.  The JWT carries
// sub (the operator name), role, exp and iat.
func NewAccessToken(secret, subject, role string, ttlMin int, now time.Time) (AccessToken, error) {
	if ttlMin <= 0 {
		ttlMin = 60
	}
	issued := now.UTC()
	exp := issued.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  issued.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
