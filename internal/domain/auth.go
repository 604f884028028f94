package domain

import "time"

// Token represents metadata of an issued bearer token. Tokens are not stored.
type Token struct {
	ID        string
	SubjectID int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carries an expiry.
func (t Token) HasExpiry() bool {
	return !t.ExpiresAt.IsZero()
}

// AuthContext is attached to a request once the auth gate accepts its token.
type AuthContext struct {
	SubjectID int64
}
