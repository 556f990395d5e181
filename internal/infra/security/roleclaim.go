package security

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/renthaven/renthaven/internal/core/domain"
)

// DecodeRoleClaim extracts the role claim embedded in a bearer token without
// verifying the signature. The backend signs its tokens, but the client has no
// verification key; the claim is read purely to normalize the role when the
// profile body omits it. Returns false for any malformed token and never panics.
func DecodeRoleClaim(token string) (domain.Role, bool) {
	token = strings.TrimSpace(token)
	if token == "" || strings.Count(token, ".") != 2 {
		return "", false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return "", false
	}

	raw, ok := claims["role"].(string)
	if !ok {
		return "", false
	}

	return domain.ParseRole(raw)
}

// EnsureRoleName backfills the profile's role from the token claim when the
// backend left it out of the body. Idempotent: a profile that already carries a
// role is returned unchanged.
func EnsureRoleName(user domain.Profile, token string) domain.Profile {
	if user.RoleName != "" {
		return user
	}
	if role, ok := DecodeRoleClaim(token); ok {
		user.RoleName = role
	}
	return user
}
