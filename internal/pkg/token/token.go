// Package token decodes bearer credentials without verifying their
// signature. The decode is advisory only: it drives session teardown and
// display decisions, never an authorization decision — the upstream API is
// the trust boundary, and a forged token with a future expiry still fails
// every protected call there.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// Decode returns the claims of the payload segment, or ok=false when the
// credential is malformed in any way. It never returns an error and never
// panics; an unreadable credential is simply unreadable.
func Decode(raw string) (jwt.MapClaims, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, false
	}
	return claims, true
}

// IsExpired evaluates the exp claim against wall-clock time, failing closed:
// a credential that cannot be decoded, or that carries no exp claim, is
// reported expired.
func IsExpired(raw string) bool {
	claims, ok := Decode(raw)
	if !ok {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Unix() < time.Now().Unix()
}
