package store_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradedesk/internal/matching/store"
)

func TestStore_FindBuyer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := store.New(db)

	mock.ExpectQuery(`SELECT buyer_name FROM remitter_mappings`).
		WithArgs("ACME TRADING LLC").
		WillReturnRows(sqlmock.NewRows([]string{"buyer_name"}).AddRow("Acme"))

	got, err := s.FindBuyer(context.Background(), "ACME TRADING LLC")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got)

	mock.ExpectQuery(`SELECT buyer_name FROM remitter_mappings`).
		WithArgs("UNKNOWN").
		WillReturnError(sql.ErrNoRows)

	got, err = s.FindBuyer(context.Background(), "UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CreateMapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := store.New(db)

	mock.ExpectExec(`INSERT INTO remitter_mappings .* ON CONFLICT`).
		WithArgs("ACME", "Acme").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.CreateMapping(context.Background(), "ACME", "Acme"))

	mock.ExpectExec(`INSERT INTO remitter_mappings`).
		WithArgs("ACME", "Acme Holdings").
		WillReturnError(errors.New("connection reset"))

	err = s.CreateMapping(context.Background(), "ACME", "Acme Holdings")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `saving mapping "ACME"`)

	assert.NoError(t, mock.ExpectationsWereMet())
}
