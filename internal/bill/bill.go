package bill

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("shipping bill not found")

// ShippingBill is an export shipping bill with the invoices raised under it.
type ShippingBill struct {
	ID            uuid.UUID
	SBNumber      string
	SBDate        time.Time
	PortCode      string
	LodgementNo   string
	LodgementDate *time.Time
	BuyerName     string
	// Placeholder marks bills created from a bank upload with no underlying SB data.
	Placeholder bool
	Invoices    []Invoice
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Lodged reports whether the bill has been registered with the bank.
func (b ShippingBill) Lodged() bool {
	return b.LodgementNo != ""
}

// Invoice is a commercial invoice and the remittances mapped to it over time.
type Invoice struct {
	ID          uuid.UUID
	BillID      uuid.UUID
	InvNumber   string
	InvDate     time.Time
	DueDate     *time.Time
	InvValue    decimal.Decimal
	Currency    string
	Remittances []RemittanceGroup
}

// RemittanceHeader is the part of an inbound remittance copied onto every invoice it settles.
type RemittanceHeader struct {
	RemittanceID  uuid.UUID
	RemRef        string
	RemDate       time.Time
	Currency      string
	Instructed    decimal.Decimal
	Charges       decimal.Decimal
	Net           decimal.Decimal
	SenderRefNo   string
	SenderRefDate *time.Time
	RemitterName  string
}

// RemittanceGroup is one remittance as seen from a single invoice, with the IRM lines that
// utilized it against that invoice.
type RemittanceGroup struct {
	RemittanceHeader
	IrmLines []IrmLine
}

// IrmLine is a single utilization of a remittance against an invoice.
type IrmLine struct {
	ID            uuid.UUID
	IrmRef        string
	IrmDate       time.Time
	PurposeCode   string
	PurposeDesc   string
	CreditAccount string
	// IrmUtilized is in the remittance currency.
	IrmUtilized decimal.Decimal
	// ConvRate is nil until entered. Realized is zero while it is nil.
	ConvRate *decimal.Decimal
	// InvRealized is in the invoice currency.
	InvRealized  decimal.Decimal
	FbChargesRem decimal.Decimal
}
