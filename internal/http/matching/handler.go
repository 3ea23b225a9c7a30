package matching

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/tradedesk/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RemitterName string `json:"remitter_name"`
	BuyerName    string `json:"buyer_name"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	remitter := r.URL.Query().Get("remitter_name")
	if remitter == "" {
		http.Error(w, "remitter_name query parameter is required", http.StatusBadRequest)
		return
	}

	buyer, err := h.svc.Suggest(r.Context(), remitter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(suggestResponse{
		RemitterName: remitter,
		BuyerName:    buyer,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type learnRequest struct {
	RawPattern string `json:"raw_pattern"`
	BuyerName  string `json:"buyer_name"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.Learn(r.Context(), req.RawPattern, req.BuyerName); err != nil {
		if errors.Is(err, matching.ErrInvalidMapping) {
			http.Error(w, "raw_pattern and buyer_name are required", http.StatusBadRequest)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusCreated)
}
