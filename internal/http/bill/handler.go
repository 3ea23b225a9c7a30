package bill

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type Handler struct {
	svc *bill.Service
}

func NewHandler(svc *bill.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/lodgement", h.lodge)
}

type invoiceRequest struct {
	InvNumber string          `json:"inv_number"`
	InvDate   time.Time       `json:"inv_date"`
	DueDate   *time.Time      `json:"due_date,omitempty"`
	InvValue  decimal.Decimal `json:"inv_value"`
	Currency  string          `json:"currency"`
}

type createBillRequest struct {
	SBNumber      string           `json:"sb_number"`
	SBDate        time.Time        `json:"sb_date"`
	PortCode      string           `json:"port_code"`
	LodgementNo   string           `json:"lodgement_no"`
	LodgementDate *time.Time       `json:"lodgement_date,omitempty"`
	BuyerName     string           `json:"buyer_name"`
	Placeholder   bool             `json:"placeholder"`
	Invoices      []invoiceRequest `json:"invoices"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.SBNumber) == "" && !req.Placeholder {
		http.Error(w, "sb_number is required", http.StatusBadRequest)
		return
	}

	params := bill.CreateParams{
		SBNumber:      req.SBNumber,
		SBDate:        req.SBDate,
		PortCode:      req.PortCode,
		LodgementNo:   req.LodgementNo,
		LodgementDate: req.LodgementDate,
		BuyerName:     req.BuyerName,
		Placeholder:   req.Placeholder,
		Invoices:      make([]bill.InvoiceParams, 0, len(req.Invoices)),
	}

	for _, inv := range req.Invoices {
		if inv.InvNumber == "" || inv.Currency == "" {
			http.Error(w, "inv_number and currency are required for every invoice", http.StatusBadRequest)
			return
		}

		params.Invoices = append(params.Invoices, bill.InvoiceParams{
			InvNumber: inv.InvNumber,
			InvDate:   inv.InvDate,
			DueDate:   inv.DueDate,
			InvValue:  inv.InvValue,
			Currency:  inv.Currency,
		})
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := bill.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		st, ok := status.ParseBill(s)
		if !ok {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}

		filter.Status = new(st)
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	if s := q.Get("buyer"); s != "" {
		filter.Buyer = new(s)
	}

	if s := q.Get("currency"); s != "" {
		filter.Currency = new(strings.ToUpper(s))
	}

	bills, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(bills)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, bill.ErrNotFound) {
			http.Error(w, "shipping bill not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(b)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type lodgeRequest struct {
	LodgementNo   string    `json:"lodgement_no"`
	LodgementDate time.Time `json:"lodgement_date"`
}

func (h *Handler) lodge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req lodgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.LodgementNo) == "" {
		http.Error(w, "lodgement_no is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.Lodge(r.Context(), id, req.LodgementNo, req.LodgementDate); err != nil {
		if errors.Is(err, bill.ErrNotFound) {
			http.Error(w, "shipping bill not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
