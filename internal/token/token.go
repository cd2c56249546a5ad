// Package token issues and verifies the stateless identity tokens that back
// every authenticated request. A token's validity is fully determined by its
// HMAC signature and embedded expiry; nothing is stored server-side, so there
// is no revocation before natural expiry.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appErr "github.com/ace-TI85/dev-connector/pkg/errors"
)

// DefaultTTL matches the expiry window the API has always used.
const DefaultTTL = 3600 * time.Second

// Service signs and verifies identity tokens with a shared HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService returns a Service signing with secret. A zero ttl falls back
// to DefaultTTL.
func NewService(secret []byte, ttl time.Duration) *Service {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: secret, ttl: ttl}
}

// Issue produces a signed token embedding the user id, valid for the
// configured window from now.
func (s *Service) Issue(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "sign token failed")
	}
	return signed, nil
}

// Verify resolves a raw token to the user id it carries. Any failure (bad
// signature, wrong algorithm, malformed payload, expired) comes back as a
// single invalid_credential error; there are no partial-trust states.
func (s *Service) Verify(raw string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, appErr.Wrap(err, appErr.CodeInvalidCredential, "token is not valid")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, appErr.New(appErr.CodeInvalidCredential, "token is not valid")
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, appErr.Wrap(err, appErr.CodeInvalidCredential, "token is not valid")
	}
	return id, nil
}
