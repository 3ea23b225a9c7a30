package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/export"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Buyer     *string    `json:"buyer,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

type billResponse struct {
	ID               uuid.UUID       `json:"id"`
	SBNumber         string          `json:"sb_number"`
	SBDate           time.Time       `json:"sb_date"`
	BuyerName        string          `json:"buyer_name"`
	Status           status.Bill     `json:"status"`
	TotalFob         decimal.Decimal `json:"total_fob"`
	TotalRealized    decimal.Decimal `json:"total_realized"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

type exportMetadataResponse struct {
	Bills   []billResponse `json:"bills"`
	Summary string         `json:"summary"`
}

func toBillResponse(item export.Item) billResponse {
	return billResponse{
		ID:               item.Bill.ID,
		SBNumber:         item.Bill.SBNumber,
		SBDate:           item.Bill.SBDate,
		BuyerName:        item.Bill.BuyerName,
		Status:           item.Summary.Status,
		TotalFob:         item.Summary.TotalFob,
		TotalRealized:    item.Summary.TotalRealized,
		TotalOutstanding: item.Summary.TotalOutstanding,
	}
}

func (req exportRequest) filter() (bill.ListFilter, error) {
	filter := bill.ListFilter{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Buyer:     req.Buyer,
	}

	if req.Status != nil {
		st, ok := status.ParseBill(*req.Status)
		if !ok {
			return filter, fmt.Errorf("unknown status %q", *req.Status)
		}

		filter.Status = &st
	}

	return filter, nil
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) ([]export.Item, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	filter, err := req.filter()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	items, err := h.svc.Export(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	return items, true
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	items, ok := h.load(w, r)
	if !ok {
		return
	}

	bills := make([]billResponse, 0, len(items))
	for _, item := range items {
		bills = append(bills, toBillResponse(item))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(exportMetadataResponse{
		Bills:   bills,
		Summary: h.svc.GenerateSummary(items),
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	items, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"realization_%s.xlsx\"", time.Now().Format("20060102")))

	if err := h.svc.WriteWorkbook(items, w); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}
