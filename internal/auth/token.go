package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/catalog-gateway/internal/domain"
)

const secretSize = 32

// Token verification failures.
var (
	ErrTokenMalformed    = errors.New("token malformed")
	ErrTokenBadSignature = errors.New("token signature mismatch")
	ErrTokenExpired      = errors.New("token expired")
)

var strictSegment = base64.RawURLEncoding.Strict()

// NewSecret returns fresh signing key material. Callers must not log or persist it.
func NewSecret() ([]byte, error) {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	return secret, nil
}

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. A zero ttl issues tokens without expiry.
func NewTokenManager(secret []byte, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < secretSize {
		return nil, fmt.Errorf("token secret must be at least %d bytes", secretSize)
	}
	if ttl < 0 {
		return nil, errors.New("token ttl must not be negative")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenManager{secret: key, ttl: ttl}, nil
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a token bound to subjectID.
func (tm *TokenManager) Issue(subjectID int64, now time.Time) (string, domain.Token, error) {
	meta := domain.Token{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		IssuedAt:  now.Truncate(time.Second),
	}
	claims := jwt.RegisteredClaims{
		ID:       meta.ID,
		Subject:  strconv.FormatInt(subjectID, 10),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if tm.ttl > 0 {
		meta.ExpiresAt = now.Add(tm.ttl).Truncate(time.Second)
		claims.ExpiresAt = jwt.NewNumericDate(meta.ExpiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", domain.Token{}, err
	}
	return signed, meta, nil
}

// Verify checks the token against now and returns the bound subject id.
// The signature is checked before any claim is trusted, so a token altered in
// transit reports ErrTokenBadSignature even when its payload no longer decodes.
func (tm *TokenManager) Verify(tokenStr string, now time.Time) (int64, error) {
	// A missing or altered separator leaves no signature segment to check.
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return 0, ErrTokenMalformed
	}

	sig, err := strictSegment.DecodeString(parts[2])
	if err != nil {
		return 0, ErrTokenBadSignature
	}
	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, tm.secret); err != nil {
		return 0, ErrTokenBadSignature
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if tm.ttl > 0 {
		opts = append(opts, jwt.WithExpirationRequired())
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.NewParser(opts...).ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subjectID <= 0 {
		return 0, fmt.Errorf("%w: invalid subject", ErrTokenMalformed)
	}
	return subjectID, nil
}

// TokenErrorReason labels a verification error for logs and metrics.
func TokenErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenBadSignature):
		return "bad_signature"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	default:
		return "unknown"
	}
}
