package repository

import (
	"context"
	"database/sql"
	"fmt"
)

const selectCredentials = `
        SELECT id, username, password
        FROM credentials
        ORDER BY id`

// LoadCredentialsPostgres reads the credential set once from the credentials table.
func LoadCredentialsPostgres(ctx context.Context, db *sql.DB) ([]CredentialRecord, error) {
	rows, err := db.QueryContext(ctx, selectCredentials)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	var records []CredentialRecord
	for rows.Next() {
		var rec CredentialRecord
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.Password); err != nil {
			return nil, fmt.Errorf("%w: scan credential: %v", ErrInvalidCredentialSet, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return records, nil
}
