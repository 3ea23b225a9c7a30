package settlement

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/money"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

var (
	// ErrOverUtilized is returned when recording the lines would push a remittance's
	// utilized total above its net.
	ErrOverUtilized = errors.New("remittance would be over-utilized")

	ErrNothingToSubmit = errors.New("allocation has no invoice rows")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=settlement
type Repository interface {
	GetRemittance(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error)
	InvoicesByID(ctx context.Context, ids []uuid.UUID) ([]bill.Invoice, error)

	BeginSettle(ctx context.Context, remittanceID uuid.UUID) (SettleTx, error)
}

// SettleTx holds the per-remittance lock for the duration of a submit.
type SettleTx interface {
	Remittance(ctx context.Context, id uuid.UUID) (*remittance.Remittance, error)
	Invoices(ctx context.Context, ids []uuid.UUID) ([]bill.Invoice, error)
	InsertLines(ctx context.Context, remittanceID uuid.UUID, lines []Line) error
	Commit() error
	Rollback() error
}

type InvoiceLister interface {
	OutstandingInvoices(ctx context.Context, currency, buyer string) ([]bill.OpenInvoice, error)
}

type BuyerSuggester interface {
	Suggest(ctx context.Context, remitterName string) (string, error)
}

type Service struct {
	repo     Repository
	invoices InvoiceLister
	buyers   BuyerSuggester
	refs     RefGenerator
	now      func() time.Time
}

func NewService(repo Repository, invoices InvoiceLister, buyers BuyerSuggester, refs RefGenerator) *Service {
	return &Service{
		repo:     repo,
		invoices: invoices,
		buyers:   buyers,
		refs:     refs,
		now:      time.Now,
	}
}

// Draft is an allocation as edited by a client. Numbers are lenient; a nil field keeps the
// value the allocator would have filled in.
type Draft struct {
	TotalFbCharges *money.Lenient    `json:"total_fb_charges"`
	Settlements    []DraftSettlement `json:"settlements"`
}

type DraftSettlement struct {
	CreditAccount string         `json:"credit_account"`
	CreditAmount  *money.Lenient `json:"credit_amount"`
	PurposeCode   string         `json:"purpose_code"`
	PurposeDesc   string         `json:"purpose_desc"`
	Rows          []DraftRow     `json:"rows"`
}

type DraftRow struct {
	InvoiceID          uuid.UUID          `json:"invoice_id"`
	RemittanceUtilized *money.Lenient     `json:"remittance_utilized"`
	ConvRate           *money.LenientRate `json:"conv_rate"`
}

// DraftOf renders an allocation as the draft that rebuilds it.
func DraftOf(a Allocation) Draft {
	d := Draft{
		TotalFbCharges: &money.Lenient{Decimal: a.TotalFbCharges},
		Settlements:    make([]DraftSettlement, len(a.Settlements)),
	}

	for i, s := range a.Settlements {
		ds := DraftSettlement{
			CreditAccount: s.CreditAccount,
			CreditAmount:  &money.Lenient{Decimal: s.CreditAmount},
			PurposeCode:   s.PurposeCode,
			PurposeDesc:   s.PurposeDesc,
			Rows:          make([]DraftRow, len(s.Rows)),
		}

		for j, r := range s.Rows {
			ds.Rows[j] = DraftRow{
				InvoiceID:          r.InvoiceID,
				RemittanceUtilized: &money.Lenient{Decimal: r.RemittanceUtilized},
				ConvRate:           &money.LenientRate{Rate: r.ConvRate},
			}
		}

		d.Settlements[i] = ds
	}

	return d
}

func (d Draft) invoiceIDs() []uuid.UUID {
	var ids []uuid.UUID

	seen := make(map[uuid.UUID]struct{})

	for _, s := range d.Settlements {
		for _, r := range s.Rows {
			if _, ok := seen[r.InvoiceID]; ok {
				continue
			}

			seen[r.InvoiceID] = struct{}{}

			ids = append(ids, r.InvoiceID)
		}
	}

	return ids
}

// Candidates lists outstanding invoices the remittance can settle, narrowed to the buyer its
// remitter is known to pay for when there is one. Invoices in the remittance currency come
// first. Others follow and need a conversion rate once linked.
func (s *Service) Candidates(ctx context.Context, remittanceID uuid.UUID) ([]Candidate, error) {
	rem, err := s.repo.GetRemittance(ctx, remittanceID)
	if err != nil {
		return nil, err
	}

	buyer, err := s.buyers.Suggest(ctx, rem.RemitterName)
	if err != nil {
		return nil, fmt.Errorf("suggesting buyer: %w", err)
	}

	open, err := s.invoices.OutstandingInvoices(ctx, "", buyer)
	if err != nil {
		return nil, err
	}

	if len(open) == 0 && buyer != "" {
		slog.Debug("no open invoices for suggested buyer", "buyer", buyer, "rem_ref", rem.RemRef)

		open, err = s.invoices.OutstandingInvoices(ctx, "", "")
		if err != nil {
			return nil, err
		}
	}

	slices.SortStableFunc(open, func(x, y bill.OpenInvoice) int {
		return cmp.Compare(foreign(x, rem.Currency), foreign(y, rem.Currency))
	})

	candidates := make([]Candidate, len(open))
	for i, o := range open {
		candidates[i] = Candidate{
			InvoiceID:   o.Invoice.ID,
			InvNumber:   o.Invoice.InvNumber,
			SBNumber:    o.SBNumber,
			BuyerName:   o.BuyerName,
			Value:       o.Invoice.InvValue,
			Currency:    o.Invoice.Currency,
			Outstanding: o.Summary.Outstanding,
		}
	}

	return candidates, nil
}

func foreign(o bill.OpenInvoice, currency string) int {
	if strings.EqualFold(o.Invoice.Currency, currency) {
		return 0
	}

	return 1
}

// Preview is a rebuilt allocation together with the reason it cannot be submitted, if any.
type Preview struct {
	Allocation Allocation
	Invalid    ValidationError
}

func (s *Service) Preview(ctx context.Context, remittanceID uuid.UUID, draft Draft) (*Preview, error) {
	rem, err := s.repo.GetRemittance(ctx, remittanceID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.InvoicesByID(ctx, draft.invoiceIDs())
	if err != nil {
		return nil, err
	}

	a, err := Rebuild(*rem, invoices, draft)
	if err != nil {
		return nil, err
	}

	p := &Preview{Allocation: a}

	var verr ValidationError
	if err := Validate(a); errors.As(err, &verr) {
		p.Invalid = verr
	}

	return p, nil
}

// Result is what a submit recorded.
type Result struct {
	Allocation Allocation
	Lines      []Line
	// Invoices are the settled invoices with the new lines merged in.
	Invoices []bill.Invoice
}

// Submit validates the draft against the current state of the remittance and records one
// IRM line per invoice row, all in one transaction.
func (s *Service) Submit(ctx context.Context, remittanceID uuid.UUID, draft Draft) (*Result, error) {
	stx, err := s.repo.BeginSettle(ctx, remittanceID)
	if err != nil {
		return nil, fmt.Errorf("begin settle: %w", err)
	}
	defer stx.Rollback()

	rem, err := stx.Remittance(ctx, remittanceID)
	if err != nil {
		return nil, err
	}

	invoices, err := stx.Invoices(ctx, draft.invoiceIDs())
	if err != nil {
		return nil, err
	}

	a, err := Rebuild(*rem, invoices, draft)
	if err != nil {
		return nil, err
	}

	if err := Validate(a); err != nil {
		return nil, err
	}

	lines := Flatten(a, s.today(), s.refs)
	if len(lines) == 0 {
		return nil, ErrNothingToSubmit
	}

	if rem.Utilized.Add(Utilized(lines)).GreaterThan(rem.Net.Add(money.Epsilon)) {
		return nil, ErrOverUtilized
	}

	if err := stx.InsertLines(ctx, rem.ID, lines); err != nil {
		return nil, fmt.Errorf("insert irm lines: %w", err)
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("commit settle: %w", err)
	}

	slog.Info("settlement submitted", "rem_ref", rem.RemRef, "irm_lines", len(lines))

	return &Result{
		Allocation: a,
		Lines:      lines,
		Invoices:   mergeLines(invoices, rem.Header(), lines),
	}, nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Rebuild replays draft over a fresh allocation of rem using the allocator operations, so
// every derived field is recomputed server side.
func Rebuild(rem remittance.Remittance, invoices []bill.Invoice, draft Draft) (Allocation, error) {
	byID := make(map[uuid.UUID]bill.Invoice, len(invoices))
	for _, inv := range invoices {
		byID[inv.ID] = inv
	}

	a := NewAllocation(rem)
	if draft.TotalFbCharges != nil {
		a = a.SetTotalCharges(draft.TotalFbCharges.Decimal)
	}

	if len(draft.Settlements) == 0 {
		return a, nil
	}

	var err error

	for i, ds := range draft.Settlements {
		if i > 0 {
			if a, err = a.AddSettlement(); err != nil {
				return a, fmt.Errorf("adding settlement %d: %w", i+1, err)
			}
		}

		if ds.CreditAmount != nil {
			if a, err = a.SetCreditAmount(i, ds.CreditAmount.Decimal); err != nil {
				return a, err
			}
		}

		if a, err = a.SetDetails(i, Details{
			CreditAccount: ds.CreditAccount,
			PurposeCode:   ds.PurposeCode,
			PurposeDesc:   ds.PurposeDesc,
		}); err != nil {
			return a, err
		}

		for _, dr := range ds.Rows {
			if a, err = applyRow(a, i, dr, byID); err != nil {
				return a, err
			}
		}
	}

	return a, nil
}

func applyRow(a Allocation, i int, dr DraftRow, byID map[uuid.UUID]bill.Invoice) (Allocation, error) {
	inv, ok := byID[dr.InvoiceID]
	if !ok {
		return a, fmt.Errorf("invoice %s: %w", dr.InvoiceID, bill.ErrNotFound)
	}

	sum := bill.SummarizeInvoice(inv)

	a, err := a.AddInvoices(i, []Candidate{{
		InvoiceID:   inv.ID,
		InvNumber:   inv.InvNumber,
		Value:       inv.InvValue,
		Currency:    inv.Currency,
		Outstanding: sum.Outstanding,
	}})
	if err != nil {
		return a, err
	}

	r := rowIndex(a.Settlements[i], inv.ID)

	if dr.RemittanceUtilized != nil {
		if a, err = a.EditCell(i, r, FieldUtilized, dr.RemittanceUtilized.Decimal); err != nil {
			return a, err
		}
	}

	if dr.ConvRate != nil {
		var rate any
		if dr.ConvRate.Rate != nil {
			rate = *dr.ConvRate.Rate
		}

		if a, err = a.EditCell(i, r, FieldConvRate, rate); err != nil {
			return a, err
		}
	}

	return a, nil
}

func rowIndex(s Settlement, invoiceID uuid.UUID) int {
	for j, r := range s.Rows {
		if r.InvoiceID == invoiceID {
			return j
		}
	}

	return -1
}

func mergeLines(invoices []bill.Invoice, header bill.RemittanceHeader, lines []Line) []bill.Invoice {
	byInvoice := make(map[uuid.UUID][]bill.IrmLine)
	for _, l := range lines {
		byInvoice[l.InvoiceID] = append(byInvoice[l.InvoiceID], l.IrmLine)
	}

	merged := make([]bill.Invoice, 0, len(byInvoice))

	for _, inv := range invoices {
		if ls, ok := byInvoice[inv.ID]; ok {
			merged = append(merged, bill.MergeIrmLines(inv, header, ls))
		}
	}

	return merged
}

// Utilized sums the remittance amount mapped by a set of lines.
func Utilized(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.IrmLine.IrmUtilized)
	}

	return total
}
