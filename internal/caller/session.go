package caller

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "favorites/pkg/domain-errors"
)

// DefaultIssuer is the iss claim of session tokens minted by this service.
const DefaultIssuer = "favorites"

// SessionClaims are the claims carried by a session token.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionService signs and validates HS256 session tokens.
type SessionService struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

// NewSessionService creates a SessionService. An empty issuer means
// DefaultIssuer.
func NewSessionService(signingKey, issuer string) *SessionService {
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &SessionService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		now:        time.Now,
	}
}

// Issue mints a session token for userID valid for ttl.
func (s *SessionService) Issue(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return signed, nil
}

// Validate parses tokenString and returns its claims.
func (s *SessionService) Validate(tokenString string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
