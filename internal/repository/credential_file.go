package repository

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadCredentialsFile reads a JSON array of credential records.
func LoadCredentialsFile(path string) ([]CredentialRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open credentials file: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()

	var records []CredentialRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidCredentialSet, path, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data in %s", ErrInvalidCredentialSet, path)
	}
	return records, nil
}
