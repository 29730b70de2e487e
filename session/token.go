package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpired reports whether the JWT's exp claim is in the past. The
// signature is not verified; real validation happens server-side. Tokens
// that cannot be parsed or carry no exp claim are treated as expired.
func TokenExpired(token string) bool {
	return tokenExpiredAt(token, time.Now())
}

func tokenExpiredAt(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.Before(now)
}
