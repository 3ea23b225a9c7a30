package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/MrJamesThe3rd/tradedesk/internal/database"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRemittance reads a remittance row with its line aggregates.
// Column order follows selectRemittanceColumns.
func scanRemittance(s scanner) (*remittance.Remittance, error) {
	var r remittance.Remittance

	if err := s.Scan(
		&r.ID, &r.RemRef, &r.RemDate, &r.Currency, &r.Instructed, &r.Charges, &r.Net,
		&r.SenderRefNo, &r.SenderRefDate, &r.RemitterName, &r.Bank, &r.CreatedAt,
		&r.Utilized, &r.ChargesAttributed, &r.LineCount,
	); err != nil {
		return nil, err
	}

	return &r, nil
}

const selectRemittanceColumns = `
	r.id, r.rem_ref, r.rem_date, r.currency, r.instructed, r.charges, r.net,
	r.sender_ref_no, r.sender_ref_date, r.remitter_name, r.bank, r.created_at,
	COALESCE(SUM(l.irm_utilized), 0), COALESCE(SUM(l.fb_charges_rem), 0), COUNT(l.id)
`

const fromRemittances = `
	FROM remittances r
	LEFT JOIN irm_lines l ON l.remittance_id = r.id
`

func (s *Store) GetRemittance(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error) {
	return Load(ctx, s.db, id)
}

func (s *Store) GetRemittanceByRef(ctx context.Context, ref string) (*remittance.Remittance, error) {
	return getOne(ctx, s.db, "r.rem_ref = $1", ref)
}

// Load reads one remittance with its line aggregates through q, so a caller holding a
// transaction sees lines it has written itself.
func Load(ctx context.Context, q database.Querier, id uuid.UUID) (*remittance.Remittance, error) {
	return getOne(ctx, q, "r.id = $1", id)
}

func getOne(ctx context.Context, q database.Querier, where string, arg any) (*remittance.Remittance, error) {
	query := `SELECT ` + selectRemittanceColumns + fromRemittances + `
		WHERE ` + where + `
		GROUP BY r.id`

	r, err := scanRemittance(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, remittance.ErrNotFound
		}

		return nil, fmt.Errorf("getting remittance: %w", err)
	}

	return r, nil
}

func (s *Store) ListRemittances(ctx context.Context, filter remittance.ListFilter) ([]*remittance.Remittance, error) {
	query := `SELECT ` + selectRemittanceColumns + fromRemittances + ` WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND r.rem_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND r.rem_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Currency != nil {
		query += fmt.Sprintf(" AND r.currency = $%d", argIdx)

		args = append(args, *filter.Currency)
		argIdx++
	}

	if filter.Remitter != nil {
		query += fmt.Sprintf(" AND r.remitter_name ILIKE '%%' || $%d || '%%'", argIdx)

		args = append(args, *filter.Remitter)
		argIdx++
	}

	query += " GROUP BY r.id ORDER BY r.rem_date ASC, r.rem_ref ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing remittances: %w", err)
	}
	defer rows.Close()

	var rems []*remittance.Remittance

	for rows.Next() {
		r, err := scanRemittance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning remittance: %w", err)
		}

		rems = append(rems, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating remittances: %w", err)
	}

	return rems, nil
}

func importLockKey(minDate, maxDate time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte("remittances"))
	h.Write([]byte{0})
	h.Write([]byte(minDate.Format(time.DateOnly)))
	h.Write([]byte{0})
	h.Write([]byte(maxDate.Format(time.DateOnly)))

	return int64(h.Sum64())
}

type importTx struct {
	tx *sql.Tx
}

func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (remittance.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	lockKey := importLockKey(minDate, maxDate)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, refs []string) ([]*remittance.Remittance, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + selectRemittanceColumns + fromRemittances + `
		WHERE r.rem_ref = ANY($1)
		GROUP BY r.id
		ORDER BY r.rem_date ASC`

	rows, err := itx.tx.QueryContext(ctx, query, pq.Array(refs))
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}
	defer rows.Close()

	var duplicates []*remittance.Remittance

	for rows.Next() {
		r, err := scanRemittance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning remittance: %w", err)
		}

		duplicates = append(duplicates, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duplicate rows: %w", err)
	}

	return duplicates, nil
}

func (itx *importTx) CreateRemittances(ctx context.Context, rems []*remittance.Remittance) error {
	query := `
		INSERT INTO remittances (rem_ref, rem_date, currency, instructed, charges, net,
			sender_ref_no, sender_ref_date, remitter_name, bank, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	for _, r := range rems {
		err := itx.tx.QueryRowContext(ctx, query,
			r.RemRef,
			r.RemDate,
			r.Currency,
			r.Instructed,
			r.Charges,
			r.Net,
			r.SenderRefNo,
			r.SenderRefDate,
			r.RemitterName,
			r.Bank,
		).Scan(&r.ID, &r.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating remittance %s: %w", r.RemRef, err)
		}
	}

	return nil
}
