package settlement

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
)

type Handler struct {
	svc *settlement.Service
}

func NewHandler(svc *settlement.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{remittanceID}/candidates", h.candidates)
	r.Post("/{remittanceID}/preview", h.preview)
	r.Post("/{remittanceID}", h.submit)
}

func (h *Handler) candidates(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "remittanceID"))
	if err != nil {
		http.Error(w, "invalid remittance id", http.StatusBadRequest)
		return
	}

	candidates, err := h.svc.Candidates(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if candidates == nil {
		candidates = []settlement.Candidate{}
	}

	writeJSON(w, http.StatusOK, candidates)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := decode(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Preview(r.Context(), id, draft)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := previewResponse{
		Allocation: toAllocationResponse(p.Allocation),
		Valid:      p.Invalid == nil,
	}

	if p.Invalid != nil {
		resp.Error = errorBody(p.Invalid)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	id, draft, ok := decode(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Submit(r.Context(), id, draft)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubmitResponse(res))
}

func decode(w http.ResponseWriter, r *http.Request) (uuid.UUID, settlement.Draft, bool) {
	var draft settlement.Draft

	id, err := uuid.Parse(chi.URLParam(r, "remittanceID"))
	if err != nil {
		http.Error(w, "invalid remittance id", http.StatusBadRequest)
		return id, draft, false
	}

	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return id, draft, false
	}

	return id, draft, true
}

func writeError(w http.ResponseWriter, err error) {
	var verr settlement.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(verr))
	case errors.Is(err, remittance.ErrNotFound):
		http.Error(w, "remittance not found", http.StatusNotFound)
	case errors.Is(err, bill.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, settlement.ErrOverUtilized):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, settlement.ErrFullyAllocated),
		errors.Is(err, settlement.ErrNothingToSubmit),
		errors.Is(err, settlement.ErrNoSuchSettlement),
		errors.Is(err, settlement.ErrNoSuchRow):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "kind": "invalid_draft"})
	default:
		slog.Error("settlement request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
