package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// issuer is the JWT "iss" claim this service stamps on every token it
// mints, matching the teacher's server/token.go convention of a short
// fixed issuer string rather than a configurable one.
const issuer = "rpalserve"

// issueToken mints an HS512 JWT good for ttl, signed with secret. Unlike
// the teacher's per-user claims (subject, last-logout-time binding), this
// service has exactly one principal -- the holder of the shared API key --
// so the only claim besides the standard ones is "authorized".
func issueToken(secret []byte, ttl time.Duration) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        issuer,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(ttl).Unix(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	tokStr, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokStr, nil
}
