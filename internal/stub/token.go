package stub

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/renthaven/renthaven/internal/infra/security"
)

// TokenClaims mirrors the real backend's access-token payload: the role claim
// uses the ROLE_* spelling clients are expected to normalize.
type TokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses HS256 bearer tokens. The signing secret is
// generated per process; stub tokens are worthless outside the running stub.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer with a random per-process secret.
func NewTokenIssuer(ttl time.Duration) (*TokenIssuer, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	raw, err := security.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}

	return &TokenIssuer{secret: []byte(raw), ttl: ttl}, nil
}

// Issue signs a token for the account.
func (t *TokenIssuer) Issue(user *User) (string, error) {
	now := time.Now().UTC()

	claims := TokenClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a token and returns its claims.
func (t *TokenIssuer) Parse(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
