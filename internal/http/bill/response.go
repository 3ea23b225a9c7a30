package bill

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type billResponse struct {
	ID               uuid.UUID         `json:"id"`
	SBNumber         string            `json:"sb_number"`
	SBDate           time.Time         `json:"sb_date"`
	PortCode         string            `json:"port_code,omitempty"`
	LodgementNo      string            `json:"lodgement_no,omitempty"`
	LodgementDate    *time.Time        `json:"lodgement_date,omitempty"`
	BuyerName        string            `json:"buyer_name"`
	Placeholder      bool              `json:"placeholder"`
	Status           status.Bill       `json:"status"`
	StatusCode       string            `json:"status_code"`
	TotalFob         decimal.Decimal   `json:"total_fob"`
	TotalRealized    decimal.Decimal   `json:"total_realized"`
	TotalFbCharges   decimal.Decimal   `json:"total_fb_charges"`
	TotalOutstanding decimal.Decimal   `json:"total_outstanding"`
	Invoices         []InvoiceResponse `json:"invoices"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        *time.Time        `json:"updated_at,omitempty"`
}

// InvoiceResponse is an invoice with its derived amounts and the remittances mapped to it.
type InvoiceResponse struct {
	ID          uuid.UUID            `json:"id"`
	BillID      uuid.UUID            `json:"bill_id"`
	InvNumber   string               `json:"inv_number"`
	InvDate     time.Time            `json:"inv_date"`
	DueDate     *time.Time           `json:"due_date,omitempty"`
	InvValue    decimal.Decimal      `json:"inv_value"`
	Currency    string               `json:"currency"`
	Realized    decimal.Decimal      `json:"realized"`
	FbCharges   decimal.Decimal      `json:"fb_charges"`
	Reduction   decimal.Decimal      `json:"reduction"`
	Outstanding decimal.Decimal      `json:"outstanding"`
	Status      status.Invoice       `json:"status"`
	StatusCode  string               `json:"status_code"`
	Remittances []remittanceResponse `json:"remittances"`
}

type remittanceResponse struct {
	RemittanceID  uuid.UUID         `json:"remittance_id"`
	RemRef        string            `json:"rem_ref"`
	RemDate       time.Time         `json:"rem_date"`
	Currency      string            `json:"currency"`
	Instructed    decimal.Decimal   `json:"instructed"`
	Charges       decimal.Decimal   `json:"charges"`
	Net           decimal.Decimal   `json:"net"`
	SenderRefNo   string            `json:"sender_ref_no,omitempty"`
	SenderRefDate *time.Time        `json:"sender_ref_date,omitempty"`
	RemitterName  string            `json:"remitter_name"`
	IrmLines      []IrmLineResponse `json:"irm_lines"`
}

type IrmLineResponse struct {
	ID            uuid.UUID        `json:"id"`
	IrmRef        string           `json:"irm_ref"`
	IrmDate       time.Time        `json:"irm_date"`
	PurposeCode   string           `json:"purpose_code,omitempty"`
	PurposeDesc   string           `json:"purpose_desc,omitempty"`
	CreditAccount string           `json:"credit_account,omitempty"`
	IrmUtilized   decimal.Decimal  `json:"irm_utilized"`
	ConvRate      *decimal.Decimal `json:"conv_rate"`
	InvRealized   decimal.Decimal  `json:"inv_realized"`
	FbChargesRem  decimal.Decimal  `json:"fb_charges_rem"`
}

func toResponse(b *bill.ShippingBill) billResponse {
	sum := bill.SummarizeBill(*b)

	resp := billResponse{
		ID:               b.ID,
		SBNumber:         b.SBNumber,
		SBDate:           b.SBDate,
		PortCode:         b.PortCode,
		LodgementNo:      b.LodgementNo,
		LodgementDate:    b.LodgementDate,
		BuyerName:        b.BuyerName,
		Placeholder:      b.Placeholder,
		Status:           sum.Status,
		StatusCode:       sum.Status.Code(),
		TotalFob:         sum.TotalFob,
		TotalRealized:    sum.TotalRealized,
		TotalFbCharges:   sum.TotalFbCharges,
		TotalOutstanding: sum.TotalOutstanding,
		Invoices:         make([]InvoiceResponse, len(b.Invoices)),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	for i, inv := range b.Invoices {
		resp.Invoices[i] = ToInvoiceResponse(inv)
	}

	return resp
}

func toResponseList(bills []*bill.ShippingBill) []billResponse {
	resp := make([]billResponse, len(bills))
	for i, b := range bills {
		resp[i] = toResponse(b)
	}

	return resp
}

func ToInvoiceResponse(inv bill.Invoice) InvoiceResponse {
	sum := bill.SummarizeInvoice(inv)

	resp := InvoiceResponse{
		ID:          inv.ID,
		BillID:      inv.BillID,
		InvNumber:   inv.InvNumber,
		InvDate:     inv.InvDate,
		DueDate:     inv.DueDate,
		InvValue:    inv.InvValue,
		Currency:    inv.Currency,
		Realized:    sum.Realized,
		FbCharges:   sum.FbCharges,
		Reduction:   sum.Reduction,
		Outstanding: sum.Outstanding,
		Status:      sum.Status,
		StatusCode:  sum.Status.Code(),
		Remittances: make([]remittanceResponse, len(inv.Remittances)),
	}

	for i, g := range inv.Remittances {
		r := remittanceResponse{
			RemittanceID:  g.RemittanceID,
			RemRef:        g.RemRef,
			RemDate:       g.RemDate,
			Currency:      g.Currency,
			Instructed:    g.Instructed,
			Charges:       g.Charges,
			Net:           g.Net,
			SenderRefNo:   g.SenderRefNo,
			SenderRefDate: g.SenderRefDate,
			RemitterName:  g.RemitterName,
			IrmLines:      make([]IrmLineResponse, len(g.IrmLines)),
		}

		for j, l := range g.IrmLines {
			r.IrmLines[j] = ToIrmLineResponse(l)
		}

		resp.Remittances[i] = r
	}

	return resp
}

func ToIrmLineResponse(l bill.IrmLine) IrmLineResponse {
	return IrmLineResponse{
		ID:            l.ID,
		IrmRef:        l.IrmRef,
		IrmDate:       l.IrmDate,
		PurposeCode:   l.PurposeCode,
		PurposeDesc:   l.PurposeDesc,
		CreditAccount: l.CreditAccount,
		IrmUtilized:   l.IrmUtilized,
		ConvRate:      l.ConvRate,
		InvRealized:   l.InvRealized,
		FbChargesRem:  l.FbChargesRem,
	}
}
