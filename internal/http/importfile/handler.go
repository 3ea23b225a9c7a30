package importfile

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	httprem "github.com/MrJamesThe3rd/tradedesk/internal/http/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/importer"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

type Handler struct {
	importSvc *importer.Service
	remSvc    *remittance.Service
}

func NewHandler(importSvc *importer.Service, remSvc *remittance.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		remSvc:    remSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importFile)
	r.Post("/confirm", h.confirmImport)
}

type importSuccessResponse struct {
	Imported    int                `json:"imported"`
	Remittances []httprem.Response `json:"remittances"`
}

type createParamsDTO struct {
	RemRef        string           `json:"rem_ref"`
	RemDate       time.Time        `json:"rem_date"`
	Currency      string           `json:"currency"`
	Instructed    decimal.Decimal  `json:"instructed"`
	Charges       decimal.Decimal  `json:"charges"`
	Net           *decimal.Decimal `json:"net,omitempty"`
	SenderRefNo   string           `json:"sender_ref_no,omitempty"`
	SenderRefDate *time.Time       `json:"sender_ref_date,omitempty"`
	RemitterName  string           `json:"remitter_name"`
	Bank          string           `json:"bank,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO  `json:"incoming"`
	Existing httprem.Response `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatFromFilename(header.Filename)
	}

	if format == "" {
		http.Error(w, "format field is required for "+header.Filename, http.StatusBadRequest)
		return
	}

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if bank := r.FormValue("bank"); bank != "" {
		for i := range params {
			if params[i].Bank == "" {
				params[i].Bank = bank
			}
		}
	}

	result, err := h.remSvc.ImportBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: httprem.ToResponse(c.Existing),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	slog.Info("remittances imported", "file", header.Filename, "count", len(result.Imported))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(result.Imported)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]remittance.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, remittance.CreateParams{
			RemRef:        p.RemRef,
			RemDate:       p.RemDate,
			Currency:      p.Currency,
			Instructed:    p.Instructed,
			Charges:       p.Charges,
			Net:           p.Net,
			SenderRefNo:   p.SenderRefNo,
			SenderRefDate: p.SenderRefDate,
			RemitterName:  p.RemitterName,
			Bank:          p.Bank,
		})
	}

	rems, err := h.remSvc.CreateBatch(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toSuccessResponse(rems)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toSuccessResponse(rems []*remittance.Remittance) importSuccessResponse {
	return importSuccessResponse{
		Imported:    len(rems),
		Remittances: httprem.ToResponseList(rems),
	}
}

func toParamsDTO(p remittance.CreateParams) createParamsDTO {
	return createParamsDTO{
		RemRef:        p.RemRef,
		RemDate:       p.RemDate,
		Currency:      p.Currency,
		Instructed:    p.Instructed,
		Charges:       p.Charges,
		Net:           p.Net,
		SenderRefNo:   p.SenderRefNo,
		SenderRefDate: p.SenderRefDate,
		RemitterName:  p.RemitterName,
		Bank:          p.Bank,
	}
}
