package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/catalog-gateway/internal/config"
)

const (
	derivedAudience = "catalog-upstream"
	derivedIssuer   = "catalog-gateway"
	derivedTTL      = time.Minute
	subjectHeader   = "X-Subject-ID"
)

// Credential authenticates an upstream call. The client's own token is never
// forwarded; implementations derive or substitute a service-level credential.
type Credential interface {
	Apply(req *http.Request, subjectID int64) error
}

// NoCredential sends the request unauthenticated.
type NoCredential struct{}

func (NoCredential) Apply(*http.Request, int64) error { return nil }

// StaticKey presents a fixed service API key and names the subject in a header.
type StaticKey struct {
	Key string
}

func (s StaticKey) Apply(req *http.Request, subjectID int64) error {
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set(subjectHeader, strconv.FormatInt(subjectID, 10))
	return nil
}

// DerivedToken mints a short-lived token scoped to the upstream audience.
type DerivedToken struct {
	secret []byte
	now    func() time.Time
}

// NewDerivedToken signs upstream tokens with a secret distinct from the client token key.
func NewDerivedToken(secret []byte) *DerivedToken {
	return &DerivedToken{secret: secret, now: time.Now}
}

func (d *DerivedToken) Apply(req *http.Request, subjectID int64) error {
	now := d.now()
	claims := jwt.RegisteredClaims{
		Issuer:    derivedIssuer,
		Subject:   strconv.FormatInt(subjectID, 10),
		Audience:  jwt.ClaimStrings{derivedAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(derivedTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	return nil
}

// NewCredential selects the upstream credential for the configured mode.
func NewCredential(cfg config.UpstreamConfig) (Credential, error) {
	switch cfg.AuthMode {
	case "", config.UpstreamAuthNone:
		return NoCredential{}, nil
	case config.UpstreamAuthStatic:
		return StaticKey{Key: cfg.APIKey}, nil
	case config.UpstreamAuthDerived:
		return NewDerivedToken([]byte(cfg.TokenSecret)), nil
	default:
		return nil, errors.New("unknown upstream auth mode " + cfg.AuthMode)
	}
}
