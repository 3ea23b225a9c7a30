package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectBillColumns = `
	b.id, b.sb_number, b.sb_date, b.port_code, b.lodgement_no, b.lodgement_date,
	b.buyer_name, b.placeholder, b.created_at, b.updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

// scanBill reads a shipping_bills row. Column order follows selectBillColumns.
func scanBill(s scanner) (*bill.ShippingBill, error) {
	var b bill.ShippingBill

	var lodgementNo sql.NullString

	if err := s.Scan(
		&b.ID, &b.SBNumber, &b.SBDate, &b.PortCode, &lodgementNo, &b.LodgementDate,
		&b.BuyerName, &b.Placeholder, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}

	b.LodgementNo = lodgementNo.String

	return &b, nil
}

func (s *Store) CreateBill(ctx context.Context, b *bill.ShippingBill) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	billQuery := `
		INSERT INTO shipping_bills (sb_number, sb_date, port_code, lodgement_no, lodgement_date, buyer_name, placeholder, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err = dbTx.QueryRowContext(ctx, billQuery,
		b.SBNumber,
		b.SBDate,
		b.PortCode,
		b.LodgementNo,
		b.LodgementDate,
		b.BuyerName,
		b.Placeholder,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating shipping bill: %w", err)
	}

	invoiceQuery := `
		INSERT INTO invoices (bill_id, inv_number, inv_date, due_date, inv_value, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`

	for i := range b.Invoices {
		inv := &b.Invoices[i]
		inv.BillID = b.ID

		err := dbTx.QueryRowContext(ctx, invoiceQuery,
			inv.BillID,
			inv.InvNumber,
			inv.InvDate,
			inv.DueDate,
			inv.InvValue,
			inv.Currency,
		).Scan(&inv.ID)
		if err != nil {
			return fmt.Errorf("creating invoice %s: %w", inv.InvNumber, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) GetBill(ctx context.Context, id uuid.UUID) (*bill.ShippingBill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM shipping_bills b WHERE b.id = $1`

	b, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, bill.ErrNotFound
		}

		return nil, fmt.Errorf("getting shipping bill: %w", err)
	}

	byBill, err := InvoicesByBill(ctx, s.db, []uuid.UUID{b.ID})
	if err != nil {
		return nil, err
	}

	b.Invoices = byBill[b.ID]

	return b, nil
}

func (s *Store) ListBills(ctx context.Context, filter bill.ListFilter) ([]*bill.ShippingBill, error) {
	query := `SELECT ` + selectBillColumns + ` FROM shipping_bills b WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND b.sb_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND b.sb_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Buyer != nil {
		query += fmt.Sprintf(" AND b.buyer_name ILIKE '%%' || $%d || '%%'", argIdx)

		args = append(args, *filter.Buyer)
		argIdx++
	}

	if filter.Currency != nil {
		query += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM invoices i WHERE i.bill_id = b.id AND i.currency = $%d)", argIdx)

		args = append(args, *filter.Currency)
		argIdx++
	}

	query += " ORDER BY b.sb_date ASC, b.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing shipping bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.ShippingBill

	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shipping bill: %w", err)
		}

		bills = append(bills, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating shipping bills: %w", err)
	}

	if len(bills) == 0 {
		return bills, nil
	}

	ids := make([]uuid.UUID, len(bills))
	for i, b := range bills {
		ids[i] = b.ID
	}

	byBill, err := InvoicesByBill(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	for _, b := range bills {
		b.Invoices = byBill[b.ID]
	}

	return bills, nil
}

func (s *Store) UpdateLodgement(ctx context.Context, id uuid.UUID, lodgementNo string, lodgementDate time.Time) error {
	query := `
		UPDATE shipping_bills
		SET lodgement_no = $1, lodgement_date = $2, updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, lodgementNo, lodgementDate, id)
	if err != nil {
		return fmt.Errorf("updating lodgement: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating lodgement: %w", err)
	}

	if n == 0 {
		return bill.ErrNotFound
	}

	return nil
}

const selectInvoiceColumns = `
	i.id, i.bill_id, i.inv_number, i.inv_date, i.due_date, i.inv_value, i.currency
`

// InvoicesByBill loads the invoices of the given bills with their remittance groups, keyed
// by bill ID. It runs on q so callers inside a transaction see their own writes.
func InvoicesByBill(ctx context.Context, q database.Querier, billIDs []uuid.UUID) (map[uuid.UUID][]bill.Invoice, error) {
	invoices, err := loadInvoices(ctx, q, "i.bill_id = ANY($1::uuid[])", billIDs)
	if err != nil {
		return nil, err
	}

	byBill := make(map[uuid.UUID][]bill.Invoice, len(billIDs))
	for _, inv := range invoices {
		byBill[inv.BillID] = append(byBill[inv.BillID], inv)
	}

	return byBill, nil
}

// InvoicesByID loads the given invoices with their remittance groups.
func InvoicesByID(ctx context.Context, q database.Querier, ids []uuid.UUID) ([]bill.Invoice, error) {
	return loadInvoices(ctx, q, "i.id = ANY($1::uuid[])", ids)
}

func loadInvoices(ctx context.Context, q database.Querier, where string, ids []uuid.UUID) ([]bill.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices i
		WHERE ` + where + `
		ORDER BY i.inv_date ASC, i.inv_number ASC`

	rows, err := q.QueryContext(ctx, query, pq.Array(idStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []bill.Invoice

	for rows.Next() {
		var inv bill.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.BillID, &inv.InvNumber, &inv.InvDate, &inv.DueDate, &inv.InvValue, &inv.Currency,
		); err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoices: %w", err)
	}

	if len(invoices) == 0 {
		return invoices, nil
	}

	invIDs := make([]uuid.UUID, len(invoices))
	for i, inv := range invoices {
		invIDs[i] = inv.ID
	}

	groups, err := remittanceGroups(ctx, q, invIDs)
	if err != nil {
		return nil, err
	}

	for i := range invoices {
		invoices[i].Remittances = groups[invoices[i].ID]
	}

	return invoices, nil
}

// remittanceGroups loads IRM lines for the invoices and groups them per invoice by remittance,
// in remittance date order.
func remittanceGroups(ctx context.Context, q database.Querier, invoiceIDs []uuid.UUID) (map[uuid.UUID][]bill.RemittanceGroup, error) {
	query := `
		SELECT l.invoice_id,
			r.id, r.rem_ref, r.rem_date, r.currency, r.instructed, r.charges, r.net,
			r.sender_ref_no, r.sender_ref_date, r.remitter_name,
			l.id, l.irm_ref, l.irm_date, l.purpose_code, l.purpose_desc, l.credit_account,
			l.irm_utilized, l.conv_rate, l.inv_realized, l.fb_charges_rem
		FROM irm_lines l
		JOIN remittances r ON r.id = l.remittance_id
		WHERE l.invoice_id = ANY($1::uuid[])
		ORDER BY r.rem_date ASC, r.rem_ref ASC, l.irm_date ASC, l.created_at ASC
	`

	rows, err := q.QueryContext(ctx, query, pq.Array(idStrings(invoiceIDs)))
	if err != nil {
		return nil, fmt.Errorf("listing irm lines: %w", err)
	}
	defer rows.Close()

	groups := make(map[uuid.UUID][]bill.RemittanceGroup)

	for rows.Next() {
		var (
			invoiceID uuid.UUID
			header    bill.RemittanceHeader
			line      bill.IrmLine
			convRate  decimal.NullDecimal
		)

		if err := rows.Scan(
			&invoiceID,
			&header.RemittanceID, &header.RemRef, &header.RemDate, &header.Currency,
			&header.Instructed, &header.Charges, &header.Net,
			&header.SenderRefNo, &header.SenderRefDate, &header.RemitterName,
			&line.ID, &line.IrmRef, &line.IrmDate, &line.PurposeCode, &line.PurposeDesc, &line.CreditAccount,
			&line.IrmUtilized, &convRate, &line.InvRealized, &line.FbChargesRem,
		); err != nil {
			return nil, fmt.Errorf("scanning irm line: %w", err)
		}

		if convRate.Valid {
			line.ConvRate = &convRate.Decimal
		}

		invGroups := groups[invoiceID]
		if n := len(invGroups); n > 0 && invGroups[n-1].RemRef == header.RemRef {
			invGroups[n-1].IrmLines = append(invGroups[n-1].IrmLines, line)
		} else {
			invGroups = append(invGroups, bill.RemittanceGroup{
				RemittanceHeader: header,
				IrmLines:         []bill.IrmLine{line},
			})
		}

		groups[invoiceID] = invGroups
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating irm lines: %w", err)
	}

	return groups, nil
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}

	return out
}
