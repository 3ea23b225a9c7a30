package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	billstore "github.com/MrJamesThe3rd/tradedesk/internal/bill/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	remstore "github.com/MrJamesThe3rd/tradedesk/internal/remittance/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetRemittance(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error) {
	return remstore.Load(ctx, s.db, id)
}

func (s *Store) InvoicesByID(ctx context.Context, ids []uuid.UUID) ([]bill.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return billstore.InvoicesByID(ctx, s.db, ids)
}

func settleLockKey(remittanceID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("settle"))
	h.Write([]byte{0})
	h.Write(remittanceID[:])

	return int64(h.Sum64())
}

type settleTx struct {
	tx *sql.Tx
}

// BeginSettle opens a transaction holding an advisory lock on the remittance, so concurrent
// submits against it run one after the other.
func (s *Store) BeginSettle(ctx context.Context, remittanceID uuid.UUID) (settlement.SettleTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning settle tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", settleLockKey(remittanceID)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring settle lock: %w", err)
	}

	return &settleTx{tx: dbTx}, nil
}

func (stx *settleTx) Commit() error   { return stx.tx.Commit() }
func (stx *settleTx) Rollback() error { return stx.tx.Rollback() }

func (stx *settleTx) Remittance(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error) {
	return remstore.Load(ctx, stx.tx, id)
}

func (stx *settleTx) Invoices(ctx context.Context, ids []uuid.UUID) ([]bill.Invoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	return billstore.InvoicesByID(ctx, stx.tx, ids)
}

func (stx *settleTx) InsertLines(ctx context.Context, remittanceID uuid.UUID, lines []settlement.Line) error {
	query := `
		INSERT INTO irm_lines (irm_ref, irm_date, invoice_id, remittance_id, purpose_code, purpose_desc,
			credit_account, irm_utilized, conv_rate, inv_realized, fb_charges_rem, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id
	`

	for i := range lines {
		l := &lines[i].IrmLine

		var rate decimal.NullDecimal
		if l.ConvRate != nil {
			rate = decimal.NewNullDecimal(*l.ConvRate)
		}

		err := stx.tx.QueryRowContext(ctx, query,
			l.IrmRef,
			l.IrmDate,
			lines[i].InvoiceID,
			remittanceID,
			l.PurposeCode,
			l.PurposeDesc,
			l.CreditAccount,
			l.IrmUtilized,
			rate,
			l.InvRealized,
			l.FbChargesRem,
		).Scan(&l.ID)
		if err != nil {
			return fmt.Errorf("creating irm line %s: %w", l.IrmRef, err)
		}
	}

	return nil
}
