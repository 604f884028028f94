package repository

import (
	"errors"
	"fmt"

	"github.com/spec-kit/catalog-gateway/internal/auth"
	"github.com/spec-kit/catalog-gateway/internal/domain"
)

// ErrInvalidCredentialSet is returned when the backing dataset cannot be loaded.
var ErrInvalidCredentialSet = errors.New("invalid credential set")

// CredentialRecord is one raw entry of the credential dataset.
// Password holds either plaintext or a bcrypt hash.
type CredentialRecord struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialRepository defines read access to the static credential set.
type CredentialRepository interface {
	FindByUsername(username string) (*domain.Credential, bool)
	Len() int
}

type credentialStore struct {
	byUsername map[string]domain.Credential
}

// NewCredentialStore validates records and hashes any plaintext passwords.
// The returned repository is immutable and safe for concurrent use.
func NewCredentialStore(records []CredentialRecord, bcryptCost int) (CredentialRepository, error) {
	store := &credentialStore{byUsername: make(map[string]domain.Credential, len(records))}
	subjects := make(map[int64]struct{}, len(records))

	for i, rec := range records {
		switch {
		case rec.Username == "":
			return nil, fmt.Errorf("%w: record %d has empty username", ErrInvalidCredentialSet, i)
		case rec.Password == "":
			return nil, fmt.Errorf("%w: record %d has empty password", ErrInvalidCredentialSet, i)
		case rec.ID <= 0:
			return nil, fmt.Errorf("%w: record %d has non-positive id %d", ErrInvalidCredentialSet, i, rec.ID)
		}
		if _, dup := store.byUsername[rec.Username]; dup {
			return nil, fmt.Errorf("%w: duplicate username %q", ErrInvalidCredentialSet, rec.Username)
		}
		if _, dup := subjects[rec.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidCredentialSet, rec.ID)
		}

		hash := rec.Password
		if !auth.IsPasswordHash(hash) {
			if len(rec.Password) > auth.MaxPasswordBytes {
				return nil, fmt.Errorf("%w: record %d password exceeds %d bytes", ErrInvalidCredentialSet, i, auth.MaxPasswordBytes)
			}
			var err error
			hash, err = auth.HashPassword(rec.Password, bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash password for record %d: %w", i, err)
			}
		}

		subjects[rec.ID] = struct{}{}
		store.byUsername[rec.Username] = domain.Credential{
			SubjectID:    rec.ID,
			Username:     rec.Username,
			PasswordHash: hash,
		}
	}
	return store, nil
}

func (s *credentialStore) FindByUsername(username string) (*domain.Credential, bool) {
	cred, ok := s.byUsername[username]
	if !ok {
		return nil, false
	}
	return &cred, true
}

func (s *credentialStore) Len() int {
	return len(s.byUsername)
}
