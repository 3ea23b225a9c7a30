package remittance

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type Handler struct {
	svc *remittance.Service
}

func NewHandler(svc *remittance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/ref/{ref}", h.getByRef)
	r.Get("/{id}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := remittance.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("status"); s != "" {
		st, ok := status.ParseRemittance(s)
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

	if s := q.Get("currency"); s != "" {
		filter.Currency = new(strings.ToUpper(s))
	}

	if s := q.Get("remitter"); s != "" {
		filter.Remitter = new(s)
	}

	rems, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponseList(rems)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	h.write(w, func() (*remittance.Remittance, error) { return h.svc.Get(r.Context(), id) })
}

func (h *Handler) getByRef(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	h.write(w, func() (*remittance.Remittance, error) { return h.svc.GetByRef(r.Context(), ref) })
}

func (h *Handler) write(w http.ResponseWriter, load func() (*remittance.Remittance, error)) {
	rem, err := load()
	if err != nil {
		if errors.Is(err, remittance.ErrNotFound) {
			http.Error(w, "remittance not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(ToResponse(rem)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
