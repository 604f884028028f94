package domain

// Credential is an immutable login record loaded at startup.
type Credential struct {
	SubjectID    int64
	Username     string
	PasswordHash string
}
