package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/money"
)

// ValidationError is a user-correctable reason an allocation cannot be submitted.
type ValidationError interface {
	error
	Kind() string
	Details() map[string]any
}

// UnallocatedBalanceError means part of the remittance net is not credited to any settlement.
type UnallocatedBalanceError struct {
	Amount decimal.Decimal
}

func (e *UnallocatedBalanceError) Error() string {
	return fmt.Sprintf("remittance has an unallocated balance of %s", e.Amount.StringFixed(2))
}

func (e *UnallocatedBalanceError) Kind() string { return "unallocated_balance" }

func (e *UnallocatedBalanceError) Details() map[string]any {
	return map[string]any{"amount": e.Amount}
}

// UnmappedSettlementError means a settlement credits more (or less) than its invoice rows use.
type UnmappedSettlementError struct {
	Settlement int
	Amount     decimal.Decimal
}

func (e *UnmappedSettlementError) Error() string {
	return fmt.Sprintf("settlement %d has %s not mapped to invoices", e.Settlement+1, e.Amount.StringFixed(2))
}

func (e *UnmappedSettlementError) Kind() string { return "unmapped_settlement" }

func (e *UnmappedSettlementError) Details() map[string]any {
	return map[string]any{"settlement": e.Settlement, "amount": e.Amount}
}

// MissingConversionRateError means a cross-currency row has no conversion rate.
type MissingConversionRateError struct {
	InvoiceRef string
	Settlement int
}

func (e *MissingConversionRateError) Error() string {
	return fmt.Sprintf("invoice %s in settlement %d needs a conversion rate", e.InvoiceRef, e.Settlement+1)
}

func (e *MissingConversionRateError) Kind() string { return "missing_conversion_rate" }

func (e *MissingConversionRateError) Details() map[string]any {
	return map[string]any{"invoice_ref": e.InvoiceRef, "settlement": e.Settlement}
}

// Validate reports the first reason a cannot be submitted, or nil. Checks run in order:
// overall balance, then each settlement's unmapped amount, then conversion rates.
func Validate(a Allocation) error {
	if balance := a.OverallBalance(); balance.Abs().GreaterThan(money.Epsilon) {
		return &UnallocatedBalanceError{Amount: balance}
	}

	for i := range a.Settlements {
		if available := a.Available(i); available.Abs().GreaterThan(money.Epsilon) {
			return &UnmappedSettlementError{Settlement: i, Amount: available}
		}
	}

	for i, s := range a.Settlements {
		for _, r := range s.Rows {
			if r.ConvRate == nil && !strings.EqualFold(r.InvoiceCurrency, a.Currency) {
				return &MissingConversionRateError{InvoiceRef: r.InvoiceRef, Settlement: i}
			}
		}
	}

	return nil
}
