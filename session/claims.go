package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from a JWT access token without
// verifying its signature. The identity provider is the sole authority on
// token validity; this is only used to recover an expiry instant when the
// provider's session payload omits one.
//
// Returns (0, false) for opaque or malformed tokens and for tokens without
// an exp claim.
func TokenExpiry(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, false
	}

	return exp.Unix(), true
}
