package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	httpbill "github.com/MrJamesThe3rd/tradedesk/internal/http/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type settlementResponse struct {
	settlement.Settlement
	Available  decimal.Decimal   `json:"available"`
	Charge     decimal.Decimal   `json:"charge"`
	Status     status.Remittance `json:"status"`
	StatusCode string            `json:"status_code"`
}

type allocationResponse struct {
	RemittanceID   uuid.UUID            `json:"remittance_id"`
	RemRef         string               `json:"rem_ref"`
	Currency       string               `json:"currency"`
	RemittanceNet  decimal.Decimal      `json:"remittance_net"`
	TotalFbCharges decimal.Decimal      `json:"total_fb_charges"`
	OverallBalance decimal.Decimal      `json:"overall_balance"`
	Settlements    []settlementResponse `json:"settlements"`
}

type previewResponse struct {
	Allocation allocationResponse `json:"allocation"`
	Valid      bool               `json:"valid"`
	Error      map[string]any     `json:"error,omitempty"`
}

type lineResponse struct {
	Settlement int                      `json:"settlement"`
	InvoiceID  uuid.UUID                `json:"invoice_id"`
	InvoiceRef string                   `json:"invoice_ref"`
	IrmLine    httpbill.IrmLineResponse `json:"irm_line"`
}

type submitResponse struct {
	Lines    []lineResponse             `json:"lines"`
	Invoices []httpbill.InvoiceResponse `json:"invoices"`
}

func toAllocationResponse(a settlement.Allocation) allocationResponse {
	resp := allocationResponse{
		RemittanceID:   a.RemittanceID,
		RemRef:         a.RemRef,
		Currency:       a.Currency,
		RemittanceNet:  a.RemittanceNet,
		TotalFbCharges: a.TotalFbCharges,
		OverallBalance: a.OverallBalance(),
		Settlements:    make([]settlementResponse, len(a.Settlements)),
	}

	for i, s := range a.Settlements {
		st := a.SettlementStatus(i)

		resp.Settlements[i] = settlementResponse{
			Settlement: s,
			Available:  a.Available(i),
			Charge:     a.SettlementCharge(i),
			Status:     st,
			StatusCode: st.Code(),
		}
	}

	return resp
}

func toSubmitResponse(res *settlement.Result) submitResponse {
	resp := submitResponse{
		Lines:    make([]lineResponse, len(res.Lines)),
		Invoices: make([]httpbill.InvoiceResponse, len(res.Invoices)),
	}

	for i, l := range res.Lines {
		resp.Lines[i] = lineResponse{
			Settlement: l.Settlement,
			InvoiceID:  l.InvoiceID,
			InvoiceRef: l.InvoiceRef,
			IrmLine:    httpbill.ToIrmLineResponse(l.IrmLine),
		}
	}

	for i, inv := range res.Invoices {
		resp.Invoices[i] = httpbill.ToInvoiceResponse(inv)
	}

	return resp
}

// errorBody renders a validation failure as {"error", "kind", ...details}.
func errorBody(verr settlement.ValidationError) map[string]any {
	body := map[string]any{
		"error": verr.Error(),
		"kind":  verr.Kind(),
	}

	for k, v := range verr.Details() {
		body[k] = v
	}

	return body
}
