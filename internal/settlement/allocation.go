package settlement

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/money"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

var (
	ErrFullyAllocated   = errors.New("remittance is fully allocated")
	ErrNoSuchSettlement = errors.New("settlement does not exist")
	ErrNoSuchRow        = errors.New("invoice row does not exist")
)

var one = decimal.NewFromInt(1)

// Candidate is an invoice that can be linked to a settlement.
type Candidate struct {
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	InvNumber   string          `json:"inv_number"`
	SBNumber    string          `json:"sb_number,omitempty"`
	BuyerName   string          `json:"buyer_name,omitempty"`
	Value       decimal.Decimal `json:"value"`
	Currency    string          `json:"currency"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// Row is one invoice linked to a settlement. It becomes an IRM line on submit.
type Row struct {
	InvoiceID          uuid.UUID        `json:"invoice_id"`
	InvoiceRef         string           `json:"invoice_ref"`
	InvoiceValue       decimal.Decimal  `json:"invoice_value"`
	InvoiceCurrency    string           `json:"invoice_currency"`
	RemittanceUtilized decimal.Decimal  `json:"remittance_utilized"`
	ConvRate           *decimal.Decimal `json:"conv_rate"`
	InvoiceRealized    decimal.Decimal  `json:"invoice_realized"`
	FbCharges          decimal.Decimal  `json:"fb_charges"`
	// RateLocked is set when the invoice is in the remittance currency. ConvRate is then 1.
	RateLocked bool `json:"rate_locked"`
}

// Settlement is a slice of the remittance net credited to one account and mapped to invoices.
type Settlement struct {
	CreditAccount string          `json:"credit_account"`
	CreditAmount  decimal.Decimal `json:"credit_amount"`
	PurposeCode   string          `json:"purpose_code"`
	PurposeDesc   string          `json:"purpose_desc"`
	Rows          []Row           `json:"rows"`
}

// Details are the descriptive fields of a settlement.
type Details struct {
	CreditAccount string
	PurposeCode   string
	PurposeDesc   string
}

// Allocation is the settlement state of one remittance. It is a value: every operation
// returns a new Allocation and leaves the receiver untouched.
type Allocation struct {
	RemittanceID   uuid.UUID       `json:"remittance_id"`
	RemRef         string          `json:"rem_ref"`
	Currency       string          `json:"currency"`
	RemittanceNet  decimal.Decimal `json:"remittance_net"`
	TotalFbCharges decimal.Decimal `json:"total_fb_charges"`
	Settlements    []Settlement    `json:"settlements"`
}

// NewAllocation starts an allocation over what is left of rem, with a single settlement
// crediting all of it.
func NewAllocation(rem remittance.Remittance) Allocation {
	net := rem.Available()

	a := Allocation{
		RemittanceID:   rem.ID,
		RemRef:         rem.RemRef,
		Currency:       rem.Currency,
		RemittanceNet:  net,
		TotalFbCharges: rem.UnattributedCharges(),
		Settlements:    []Settlement{{CreditAmount: net}},
	}

	return a.recomputeCharges()
}

// OverallBalance is the part of the remittance net not credited to any settlement.
func (a Allocation) OverallBalance() decimal.Decimal {
	credited := decimal.Zero
	for _, s := range a.Settlements {
		credited = credited.Add(s.CreditAmount)
	}

	return a.RemittanceNet.Sub(credited)
}

// Available is the part of settlement i not yet mapped to an invoice. It is zero for an
// index out of range.
func (a Allocation) Available(i int) decimal.Decimal {
	if i < 0 || i >= len(a.Settlements) {
		return decimal.Zero
	}

	s := a.Settlements[i]

	return s.CreditAmount.Sub(s.utilized())
}

// SettlementCharge is the share of the bank charges borne by settlement i.
func (a Allocation) SettlementCharge(i int) decimal.Decimal {
	if i < 0 || i >= len(a.Settlements) {
		return decimal.Zero
	}

	return a.settlementCharge(a.Settlements[i])
}

// SettlementStatus classifies settlement i by how much of its credit amount is mapped.
func (a Allocation) SettlementStatus(i int) status.Remittance {
	if i < 0 || i >= len(a.Settlements) {
		return status.RemittanceNoneUtilized
	}

	s := a.Settlements[i]

	return status.ClassifyRemittance(len(s.Rows) > 0, s.utilized(), s.CreditAmount)
}

func (a Allocation) settlementCharge(s Settlement) decimal.Decimal {
	return s.CreditAmount.Mul(a.TotalFbCharges).Div(orOne(a.RemittanceNet))
}

// orOne stands in 1 for a zero divisor. Any other divisor, however small, is kept.
func orOne(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return one
	}

	return d
}

func (s Settlement) utilized() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.RemittanceUtilized)
	}

	return total
}

// AddSettlement appends a settlement crediting the remaining balance.
func (a Allocation) AddSettlement() (Allocation, error) {
	remaining := a.OverallBalance()
	if remaining.LessThanOrEqual(money.Epsilon) {
		return a, ErrFullyAllocated
	}

	out := a.clone()
	out.Settlements = append(out.Settlements, Settlement{CreditAmount: money.NonNegative(remaining)})

	return out.recomputeCharges(), nil
}

// RemoveSettlement discards settlement i and its rows.
func (a Allocation) RemoveSettlement(i int) (Allocation, error) {
	if i < 0 || i >= len(a.Settlements) {
		return a, ErrNoSuchSettlement
	}

	out := a.clone()
	out.Settlements = slices.Delete(out.Settlements, i, i+1)

	return out.recomputeCharges(), nil
}

// SetDetails updates the account and purpose of settlement i.
func (a Allocation) SetDetails(i int, d Details) (Allocation, error) {
	if i < 0 || i >= len(a.Settlements) {
		return a, ErrNoSuchSettlement
	}

	out := a.clone()
	s := &out.Settlements[i]
	s.CreditAccount = strings.TrimSpace(d.CreditAccount)
	s.PurposeCode = strings.TrimSpace(d.PurposeCode)
	s.PurposeDesc = strings.TrimSpace(d.PurposeDesc)

	return out, nil
}

// SetCreditAmount changes the amount credited to settlement i. Non-numeric input counts as zero.
func (a Allocation) SetCreditAmount(i int, value any) (Allocation, error) {
	if i < 0 || i >= len(a.Settlements) {
		return a, ErrNoSuchSettlement
	}

	out := a.clone()
	out.Settlements[i].CreditAmount = money.Coerce(value)

	return out.recomputeCharges(), nil
}

// SetTotalCharges changes the bank charges to distribute. Non-numeric input counts as zero.
func (a Allocation) SetTotalCharges(value any) Allocation {
	out := a.clone()
	out.TotalFbCharges = money.Coerce(value)

	return out.recomputeCharges()
}

// AddInvoices links invoices to settlement i. Invoices already linked there are skipped.
// Each new row is prefilled with as much of the invoice outstanding as the settlement
// still has available.
func (a Allocation) AddInvoices(i int, invoices []Candidate) (Allocation, error) {
	if i < 0 || i >= len(a.Settlements) {
		return a, ErrNoSuchSettlement
	}

	out := a.clone()
	s := &out.Settlements[i]

	for _, inv := range invoices {
		if slices.ContainsFunc(s.Rows, func(r Row) bool { return r.InvoiceID == inv.InvoiceID }) {
			continue
		}

		available := money.NonNegative(s.CreditAmount.Sub(s.utilized()))

		row := Row{
			InvoiceID:          inv.InvoiceID,
			InvoiceRef:         inv.InvNumber,
			InvoiceValue:       inv.Value,
			InvoiceCurrency:    inv.Currency,
			RemittanceUtilized: decimal.Min(money.NonNegative(inv.Outstanding), available),
		}

		if strings.EqualFold(inv.Currency, a.Currency) {
			rate := one
			row.ConvRate = &rate
			row.RateLocked = true
		}

		s.Rows = append(s.Rows, row.realize())
	}

	return out.recomputeCharges(), nil
}

// Field names an editable cell of an invoice row.
type Field string

const (
	FieldUtilized Field = "remittance_utilized"
	FieldConvRate Field = "conv_rate"
)

// EditCell sets one editable cell of row r in settlement i. Non-numeric input becomes zero
// for the utilized amount and an unset rate for the conversion rate. The rate of a row in
// the remittance currency stays at 1.
func (a Allocation) EditCell(i, r int, field Field, value any) (Allocation, error) {
	if i < 0 || i >= len(a.Settlements) {
		return a, ErrNoSuchSettlement
	}

	if r < 0 || r >= len(a.Settlements[i].Rows) {
		return a, ErrNoSuchRow
	}

	out := a.clone()
	row := &out.Settlements[i].Rows[r]

	switch field {
	case FieldUtilized:
		row.RemittanceUtilized = money.Coerce(value)
	case FieldConvRate:
		if !row.RateLocked {
			row.ConvRate = money.CoerceRate(value)
		}
	default:
		return a, fmt.Errorf("unknown field %q", field)
	}

	*row = row.realize()

	return out.recomputeCharges(), nil
}

// RemoveRow unlinks row r from settlement i.
func (a Allocation) RemoveRow(i, r int) (Allocation, error) {
	if i < 0 || i >= len(a.Settlements) {
		return a, ErrNoSuchSettlement
	}

	if r < 0 || r >= len(a.Settlements[i].Rows) {
		return a, ErrNoSuchRow
	}

	out := a.clone()
	out.Settlements[i].Rows = slices.Delete(out.Settlements[i].Rows, r, r+1)

	return out.recomputeCharges(), nil
}

func (r Row) realize() Row {
	if r.ConvRate == nil {
		r.InvoiceRealized = decimal.Zero
		return r
	}

	r.InvoiceRealized = r.RemittanceUtilized.Mul(*r.ConvRate)

	return r
}

// recomputeCharges spreads the bank charges over settlements by credit amount, then over
// each settlement's rows by utilized amount. It works on a receiver already cloned.
func (a Allocation) recomputeCharges() Allocation {
	for i := range a.Settlements {
		s := &a.Settlements[i]
		charge := a.settlementCharge(*s)
		total := orOne(s.utilized())

		for j := range s.Rows {
			s.Rows[j].FbCharges = s.Rows[j].RemittanceUtilized.Mul(charge).Div(total)
		}
	}

	return a
}

func (a Allocation) clone() Allocation {
	out := a
	out.Settlements = make([]Settlement, len(a.Settlements))

	for i, s := range a.Settlements {
		s.Rows = slices.Clone(s.Rows)
		out.Settlements[i] = s
	}

	return out
}
