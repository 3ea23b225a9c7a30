package remittance

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/money"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

var ErrNotFound = errors.New("remittance not found")

// Remittance is an inbound foreign currency credit received from a buyer.
type Remittance struct {
	ID            uuid.UUID
	RemRef        string
	RemDate       time.Time
	Currency      string
	Instructed    decimal.Decimal
	Charges       decimal.Decimal
	Net           decimal.Decimal
	SenderRefNo   string
	SenderRefDate *time.Time
	RemitterName  string
	Bank          string

	// Aggregates over the IRM lines already recorded against the remittance.
	Utilized          decimal.Decimal
	ChargesAttributed decimal.Decimal
	LineCount         int

	CreatedAt time.Time
}

// Available is the part of Net not yet utilized against any invoice.
func (r Remittance) Available() decimal.Decimal {
	return money.NonNegative(r.Net.Sub(r.Utilized))
}

// UnattributedCharges is the part of the bank charges not yet pushed down to invoices.
func (r Remittance) UnattributedCharges() decimal.Decimal {
	return money.NonNegative(r.Charges.Sub(r.ChargesAttributed))
}

func (r Remittance) Status() status.Remittance {
	return status.ClassifyRemittance(r.LineCount > 0, r.Utilized, r.Net)
}

// Header returns the fields copied onto an invoice's remittance group.
func (r Remittance) Header() bill.RemittanceHeader {
	return bill.RemittanceHeader{
		RemittanceID:  r.ID,
		RemRef:        r.RemRef,
		RemDate:       r.RemDate,
		Currency:      r.Currency,
		Instructed:    r.Instructed,
		Charges:       r.Charges,
		Net:           r.Net,
		SenderRefNo:   r.SenderRefNo,
		SenderRefDate: r.SenderRefDate,
		RemitterName:  r.RemitterName,
	}
}
