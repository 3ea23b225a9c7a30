// Package status classifies invoices, shipping bills and remittances into closed state sets.
//
// Every state has a single canonical label. Screens that used to print "Closed / Realized"
// or "Pending" map onto these labels.
package status

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/money"
)

// Invoice is the realization state of one invoice.
type Invoice int

const (
	InvoiceNoneRealized Invoice = iota
	InvoicePartiallyRealized
	InvoiceFullyRealized
)

func (s Invoice) Code() string {
	switch s {
	case InvoicePartiallyRealized:
		return "partially_realized"
	case InvoiceFullyRealized:
		return "fully_realized"
	}

	return "none_realized"
}

func (s Invoice) Label() string {
	switch s {
	case InvoicePartiallyRealized:
		return "Part Realized"
	case InvoiceFullyRealized:
		return "Realized"
	}

	return "Outstanding"
}

func (s Invoice) String() string { return s.Label() }

func (s Invoice) MarshalJSON() ([]byte, error) { return json.Marshal(s.Label()) }

// ClassifyInvoice maps an invoice's realized and outstanding amounts to its state.
func ClassifyInvoice(realized, outstanding decimal.Decimal) Invoice {
	if outstanding.LessThanOrEqual(money.Epsilon) {
		return InvoiceFullyRealized
	}

	if realized.GreaterThan(money.Epsilon) {
		return InvoicePartiallyRealized
	}

	return InvoiceNoneRealized
}

// Bill is the realization state of a shipping bill.
type Bill int

const (
	BillOutstanding Bill = iota
	BillLodged
	BillPartRealized
	BillRealized
)

func (s Bill) Code() string {
	switch s {
	case BillLodged:
		return "lodged"
	case BillPartRealized:
		return "part_realized"
	case BillRealized:
		return "realized"
	}

	return "outstanding"
}

func (s Bill) Label() string {
	switch s {
	case BillLodged:
		return "Lodged"
	case BillPartRealized:
		return "Part Realized"
	case BillRealized:
		return "Realized"
	}

	return "Outstanding"
}

func (s Bill) String() string { return s.Label() }

func (s Bill) MarshalJSON() ([]byte, error) { return json.Marshal(s.Label()) }

// ParseBill resolves a bill state from its code. Unknown codes report false.
func ParseBill(code string) (Bill, bool) {
	for _, s := range []Bill{BillOutstanding, BillLodged, BillPartRealized, BillRealized} {
		if s.Code() == code {
			return s, true
		}
	}

	return BillOutstanding, false
}

// BillTotals are the aggregates a bill's state depends on.
type BillTotals struct {
	Lodged           bool
	Placeholder      bool
	HasLines         bool
	TotalFob         decimal.Decimal
	TotalOutstanding decimal.Decimal
}

// ClassifyBill maps a bill's totals to its state.
//
// A bill without a lodgement number is always outstanding. A zero-value bill never counts
// as realized. Placeholder bills created from a bank upload have no invoice value to go by:
// they stay outstanding until an IRM line exists and their FOB always counts as non-zero.
func ClassifyBill(t BillTotals) Bill {
	if t.Placeholder {
		if !t.HasLines {
			return BillOutstanding
		}

		if t.TotalOutstanding.LessThanOrEqual(money.Epsilon) {
			return BillRealized
		}

		return BillPartRealized
	}

	if !t.Lodged {
		return BillOutstanding
	}

	if t.TotalOutstanding.LessThanOrEqual(money.Epsilon) && t.TotalFob.GreaterThan(money.Epsilon) {
		return BillRealized
	}

	if t.TotalOutstanding.LessThan(t.TotalFob.Sub(money.Epsilon)) {
		return BillPartRealized
	}

	return BillLodged
}

// Remittance is the utilization state of a remittance or of one settlement of it.
type Remittance int

const (
	RemittanceNoneUtilized Remittance = iota
	RemittancePartUtilized
	RemittanceUtilized
)

func (s Remittance) Code() string {
	switch s {
	case RemittancePartUtilized:
		return "part_utilized"
	case RemittanceUtilized:
		return "utilized"
	}

	return "none_utilized"
}

func (s Remittance) Label() string {
	switch s {
	case RemittancePartUtilized:
		return "Part Utilized"
	case RemittanceUtilized:
		return "Utilized"
	}

	return "Un-utilized"
}

func (s Remittance) String() string { return s.Label() }

func (s Remittance) MarshalJSON() ([]byte, error) { return json.Marshal(s.Label()) }

// ClassifyRemittance maps the utilized total against a credit amount to a state.
func ClassifyRemittance(hasLines bool, utilized, credit decimal.Decimal) Remittance {
	if !hasLines {
		return RemittanceNoneUtilized
	}

	if utilized.GreaterThanOrEqual(credit.Sub(money.Epsilon)) {
		return RemittanceUtilized
	}

	if utilized.IsPositive() {
		return RemittancePartUtilized
	}

	return RemittanceNoneUtilized
}

// ParseRemittance resolves a remittance state from its code. Unknown codes report false.
func ParseRemittance(code string) (Remittance, bool) {
	for _, s := range []Remittance{RemittanceNoneUtilized, RemittancePartUtilized, RemittanceUtilized} {
		if s.Code() == code {
			return s, true
		}
	}

	return RemittanceNoneUtilized, false
}
