// Package nonce issues and verifies short-lived request tokens bound to the
// caller and an action name.
package nonce

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "favorites/pkg/domain-errors"
	"favorites/pkg/requestcontext"
)

// Claims are the claims of a nonce token. Subject holds the owner the nonce
// was issued to.
type Claims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies nonce tokens.
type Issuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// NewIssuer creates an Issuer signing with key. Tokens live for ttl.
func NewIssuer(key string, ttl time.Duration, opts ...Option) *Issuer {
	i := &Issuer{key: []byte(key), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Create issues a nonce for action, bound to the owner of ctx.
func (i *Issuer) Create(ctx context.Context, action string) (string, error) {
	if action == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "action is required")
	}
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   requestcontext.Owner(ctx),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(i.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign nonce")
	}
	return signed, nil
}

// Verify reports whether token is an unexpired nonce for action issued to
// the owner of ctx.
func (i *Issuer) Verify(ctx context.Context, token, action string) bool {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.key, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return false
	}
	return claims.Action == action && claims.Subject == requestcontext.Owner(ctx)
}
