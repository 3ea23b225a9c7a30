package bill

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/money"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

// InvoiceSummary holds the derived amounts of an invoice. It is never stored.
type InvoiceSummary struct {
	Value     decimal.Decimal
	Realized  decimal.Decimal
	FbCharges decimal.Decimal
	// Reduction is reserved for write-offs, which are not supported. It is always zero.
	Reduction   decimal.Decimal
	Outstanding decimal.Decimal
	Status      status.Invoice
	Currency    string
}

// SummarizeInvoice derives realized, charges, outstanding and status from the invoice's
// IRM lines. Outstanding is clamped at zero.
func SummarizeInvoice(inv Invoice) InvoiceSummary {
	realized := decimal.Zero
	charges := decimal.Zero

	for _, group := range inv.Remittances {
		for _, line := range group.IrmLines {
			realized = realized.Add(line.InvRealized)
			charges = charges.Add(line.FbChargesRem)
		}
	}

	reduction := decimal.Zero
	outstanding := money.NonNegative(inv.InvValue.Sub(realized).Sub(charges).Sub(reduction))

	return InvoiceSummary{
		Value:       inv.InvValue,
		Realized:    realized,
		FbCharges:   charges,
		Reduction:   reduction,
		Outstanding: outstanding,
		Status:      status.ClassifyInvoice(realized, outstanding),
		Currency:    inv.Currency,
	}
}

// HasLines reports whether any remittance has been utilized against the invoice.
func (inv Invoice) HasLines() bool {
	for _, group := range inv.Remittances {
		if len(group.IrmLines) > 0 {
			return true
		}
	}

	return false
}

// BillSummary aggregates the invoice summaries of a shipping bill.
type BillSummary struct {
	TotalFob         decimal.Decimal
	TotalRealized    decimal.Decimal
	TotalFbCharges   decimal.Decimal
	TotalOutstanding decimal.Decimal
	Status           status.Bill
	Invoices         []InvoiceSummary
}

func SummarizeBill(b ShippingBill) BillSummary {
	sum := BillSummary{
		Invoices: make([]InvoiceSummary, 0, len(b.Invoices)),
	}

	hasLines := false

	for _, inv := range b.Invoices {
		s := SummarizeInvoice(inv)

		sum.TotalFob = sum.TotalFob.Add(s.Value)
		sum.TotalRealized = sum.TotalRealized.Add(s.Realized)
		sum.TotalFbCharges = sum.TotalFbCharges.Add(s.FbCharges)
		sum.TotalOutstanding = sum.TotalOutstanding.Add(s.Outstanding)
		sum.Invoices = append(sum.Invoices, s)

		hasLines = hasLines || inv.HasLines()
	}

	sum.Status = status.ClassifyBill(status.BillTotals{
		Lodged:           b.Lodged(),
		Placeholder:      b.Placeholder,
		HasLines:         hasLines,
		TotalFob:         sum.TotalFob,
		TotalOutstanding: sum.TotalOutstanding,
	})

	return sum
}

// MergeIrmLines returns a copy of inv with lines appended to the remittance group matching
// header.RemRef. A new group is created from header when the invoice has none for it yet.
// inv itself is left untouched.
func MergeIrmLines(inv Invoice, header RemittanceHeader, lines []IrmLine) Invoice {
	out := inv
	out.Remittances = make([]RemittanceGroup, len(inv.Remittances), len(inv.Remittances)+1)

	idx := -1

	for i, group := range inv.Remittances {
		out.Remittances[i] = group
		if group.RemRef == header.RemRef {
			idx = i
		}
	}

	if idx < 0 {
		out.Remittances = append(out.Remittances, RemittanceGroup{RemittanceHeader: header})
		idx = len(out.Remittances) - 1
	}

	group := out.Remittances[idx]
	merged := make([]IrmLine, 0, len(group.IrmLines)+len(lines))
	merged = append(merged, group.IrmLines...)
	merged = append(merged, lines...)
	group.IrmLines = merged
	out.Remittances[idx] = group

	return out
}
