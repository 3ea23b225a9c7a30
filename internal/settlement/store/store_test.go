package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement/store"
)

func TestStore_Settle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := store.New(db)

	remID := uuid.New()
	invID := uuid.New()
	lineIDs := []uuid.UUID{uuid.New(), uuid.New()}
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("1.1")

	lines := []settlement.Line{
		{InvoiceID: invID, IrmLine: bill.IrmLine{IrmRef: "IRM-1", IrmDate: today, IrmUtilized: decimal.NewFromInt(10)}},
		{InvoiceID: invID, IrmLine: bill.IrmLine{IrmRef: "IRM-2", IrmDate: today, IrmUtilized: decimal.NewFromInt(5), ConvRate: &rate}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO irm_lines`).
		WithArgs("IRM-1", today, invID, remID, "", "", "", sqlmock.AnyArg(), nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(lineIDs[0].String()))
	mock.ExpectQuery(`INSERT INTO irm_lines`).
		WithArgs("IRM-2", today, invID, remID, "", "", "", sqlmock.AnyArg(), "1.1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(lineIDs[1].String()))
	mock.ExpectCommit()

	stx, err := s.BeginSettle(context.Background(), remID)
	require.NoError(t, err)

	require.NoError(t, stx.InsertLines(context.Background(), remID, lines))
	require.NoError(t, stx.Commit())

	assert.Equal(t, lineIDs[0], lines[0].IrmLine.ID)
	assert.Equal(t, lineIDs[1], lines[1].IrmLine.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_BeginSettle_LockFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := store.New(db)

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err = s.BeginSettle(context.Background(), uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_InvoicesByID_Empty(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	got, err := store.New(db).InvoicesByID(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
