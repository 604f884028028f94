package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-gateway/internal/auth"
	"github.com/spec-kit/catalog-gateway/internal/domain"
	"github.com/spec-kit/catalog-gateway/internal/events"
	"github.com/spec-kit/catalog-gateway/internal/repository"
)

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService checks credentials and issues tokens.
type AuthService struct {
	credentials repository.CredentialRepository
	tokenMgr    *auth.TokenManager
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	dummyHash   string
	now         func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	Credentials repository.CredentialRepository
	Tokens      *auth.TokenManager
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	BcryptCost  int
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) (*AuthService, error) {
	// Unknown usernames are compared against this hash so both paths cost one bcrypt check.
	filler := make([]byte, 16)
	if _, err := rand.Read(filler); err != nil {
		return nil, err
	}
	dummy, err := auth.HashPassword(hex.EncodeToString(filler), deps.BcryptCost)
	if err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		credentials: deps.Credentials,
		tokenMgr:    deps.Tokens,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		dummyHash:   dummy,
		now:         time.Now,
	}, nil
}

// Authenticate verifies username and password and issues a token on a match.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, domain.Token, error) {
	cred, found := s.credentials.FindByUsername(username)
	hash := s.dummyHash
	if found {
		hash = cred.PasswordHash
	}
	err := auth.ComparePassword(hash, password)
	// bcrypt only reads the first MaxPasswordBytes, so longer input can never be an exact match.
	if err != nil || !found || len(password) > auth.MaxPasswordBytes {
		s.publish(ctx, events.EventAuthFailed, events.AuthFailedPayload{Reason: "invalid_credentials"})
		return "", domain.Token{}, ErrInvalidCredentials
	}

	token, meta, err := s.tokenMgr.Issue(cred.SubjectID, s.now())
	if err != nil {
		return "", domain.Token{}, err
	}
	s.publish(ctx, events.EventAuthSucceeded, events.AuthSucceededPayload{SubjectID: meta.SubjectID, TokenID: meta.ID})
	return token, meta, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: s.now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
