package remittance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type Response struct {
	ID                uuid.UUID         `json:"id"`
	RemRef            string            `json:"rem_ref"`
	RemDate           time.Time         `json:"rem_date"`
	Currency          string            `json:"currency"`
	Instructed        decimal.Decimal   `json:"instructed"`
	Charges           decimal.Decimal   `json:"charges"`
	Net               decimal.Decimal   `json:"net"`
	SenderRefNo       string            `json:"sender_ref_no,omitempty"`
	SenderRefDate     *time.Time        `json:"sender_ref_date,omitempty"`
	RemitterName      string            `json:"remitter_name"`
	Bank              string            `json:"bank,omitempty"`
	Utilized          decimal.Decimal   `json:"utilized"`
	Available         decimal.Decimal   `json:"available"`
	ChargesAttributed decimal.Decimal   `json:"charges_attributed"`
	Status            status.Remittance `json:"status"`
	StatusCode        string            `json:"status_code"`
	CreatedAt         time.Time         `json:"created_at"`
}

func ToResponse(r *remittance.Remittance) Response {
	st := r.Status()

	return Response{
		ID:                r.ID,
		RemRef:            r.RemRef,
		RemDate:           r.RemDate,
		Currency:          r.Currency,
		Instructed:        r.Instructed,
		Charges:           r.Charges,
		Net:               r.Net,
		SenderRefNo:       r.SenderRefNo,
		SenderRefDate:     r.SenderRefDate,
		RemitterName:      r.RemitterName,
		Bank:              r.Bank,
		Utilized:          r.Utilized,
		Available:         r.Available(),
		ChargesAttributed: r.ChargesAttributed,
		Status:            st,
		StatusCode:        st.Code(),
		CreatedAt:         r.CreatedAt,
	}
}

func ToResponseList(rems []*remittance.Remittance) []Response {
	resp := make([]Response, len(rems))
	for i, r := range rems {
		resp[i] = ToResponse(r)
	}

	return resp
}
