package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLoadCredentialsPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, username, password FROM credentials").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}).
			AddRow(1, "admin", "admin").
			AddRow(2, "viewer", "secret"))

	records, err := LoadCredentialsPostgres(context.Background(), db)
	if err != nil {
		t.Fatalf("LoadCredentialsPostgres() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[1] != (CredentialRecord{ID: 2, Username: "viewer", Password: "secret"}) {
		t.Fatalf("records[1] = %+v", records[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoadCredentialsPostgresQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	boom := errors.New("relation does not exist")
	mock.ExpectQuery("SELECT id, username, password FROM credentials").WillReturnError(boom)

	if _, err := LoadCredentialsPostgres(context.Background(), db); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
}

func TestLoadCredentialsPostgresBadRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, username, password FROM credentials").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}).AddRow("not-a-number", "admin", "admin"))

	if _, err := LoadCredentialsPostgres(context.Background(), db); !errors.Is(err, ErrInvalidCredentialSet) {
		t.Fatalf("error = %v, want ErrInvalidCredentialSet", err)
	}
}
