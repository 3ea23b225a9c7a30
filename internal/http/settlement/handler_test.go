package settlement_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	httpsettle "github.com/MrJamesThe3rd/tradedesk/internal/http/settlement"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
)

type fixture struct {
	repo     *settlement.MockRepository
	stx      *settlement.MockSettleTx
	invoices *settlement.MockInvoiceLister
	buyers   *settlement.MockBuyerSuggester
	router   http.Handler
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		repo:     settlement.NewMockRepository(ctrl),
		stx:      settlement.NewMockSettleTx(ctrl),
		invoices: settlement.NewMockInvoiceLister(ctrl),
		buyers:   settlement.NewMockBuyerSuggester(ctrl),
	}

	svc := settlement.NewService(f.repo, f.invoices, f.buyers, settlement.NewRefGenerator("IRM"))

	r := chi.NewRouter()
	r.Route("/settlements", httpsettle.NewHandler(svc).Routes)
	f.router = r

	return f
}

func usdRemittance() *remittance.Remittance {
	return &remittance.Remittance{
		ID:       uuid.New(),
		RemRef:   "REM-1",
		Currency: "USD",
		Net:      decimal.NewFromInt(1000),
		Charges:  decimal.NewFromInt(20),
	}
}

func usdInvoice() bill.Invoice {
	return bill.Invoice{ID: uuid.New(), InvNumber: "INV-1", InvValue: decimal.NewFromInt(2000), Currency: "USD"}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	return rec
}

func TestHandler_Candidates(t *testing.T) {
	f := newFixture(t)
	rem := usdRemittance()
	inv := usdInvoice()

	f.repo.EXPECT().GetRemittance(gomock.Any(), rem.ID).Return(rem, nil)
	f.buyers.EXPECT().Suggest(gomock.Any(), gomock.Any()).Return("", nil)
	f.invoices.EXPECT().OutstandingInvoices(gomock.Any(), "", "").Return([]bill.OpenInvoice{{
		Invoice: inv,
		Summary: bill.SummarizeInvoice(inv),
	}}, nil)

	rec := f.do(http.MethodGet, "/settlements/"+rem.ID.String()+"/candidates", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, inv.ID.String(), got[0]["invoice_id"])
	assert.Equal(t, "2000", got[0]["outstanding"])
}

func TestHandler_Candidates_NotFound(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	f.repo.EXPECT().GetRemittance(gomock.Any(), id).Return(nil, remittance.ErrNotFound)

	rec := f.do(http.MethodGet, "/settlements/"+id.String()+"/candidates", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Preview(t *testing.T) {
	f := newFixture(t)
	rem := usdRemittance()
	inv := usdInvoice()

	f.repo.EXPECT().GetRemittance(gomock.Any(), rem.ID).Return(rem, nil)
	f.repo.EXPECT().InvoicesByID(gomock.Any(), []uuid.UUID{inv.ID}).Return([]bill.Invoice{inv}, nil)

	body := `{"settlements": [{"rows": [{"invoice_id": "` + inv.ID.String() + `", "remittance_utilized": "600"}]}]}`

	rec := f.do(http.MethodPost, "/settlements/"+rem.ID.String()+"/preview", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Allocation struct {
			OverallBalance string `json:"overall_balance"`
			Settlements    []struct {
				Available  string `json:"available"`
				Charge     string `json:"charge"`
				Status     string `json:"status"`
				StatusCode string `json:"status_code"`
				Rows       []struct {
					FbCharges string `json:"fb_charges"`
				} `json:"rows"`
			} `json:"settlements"`
		} `json:"allocation"`
		Valid bool           `json:"valid"`
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.False(t, got.Valid)
	assert.Equal(t, "unmapped_settlement", got.Error["kind"])
	assert.Equal(t, "0", got.Allocation.OverallBalance)
	require.Len(t, got.Allocation.Settlements, 1)
	assert.Equal(t, "400", got.Allocation.Settlements[0].Available)
	assert.Equal(t, "20", got.Allocation.Settlements[0].Charge)
	assert.Equal(t, "Part Utilized", got.Allocation.Settlements[0].Status)
	assert.Equal(t, "20", got.Allocation.Settlements[0].Rows[0].FbCharges)
}

func TestHandler_Submit(t *testing.T) {
	f := newFixture(t)
	rem := usdRemittance()
	inv := usdInvoice()

	f.repo.EXPECT().BeginSettle(gomock.Any(), rem.ID).Return(f.stx, nil)
	f.stx.EXPECT().Remittance(gomock.Any(), rem.ID).Return(rem, nil)
	f.stx.EXPECT().Invoices(gomock.Any(), []uuid.UUID{inv.ID}).Return([]bill.Invoice{inv}, nil)
	f.stx.EXPECT().InsertLines(gomock.Any(), rem.ID, gomock.Len(1)).Return(nil)
	f.stx.EXPECT().Commit().Return(nil)
	f.stx.EXPECT().Rollback().Return(nil)

	body := `{"settlements": [{"credit_account": "ACC-9", "rows": [{"invoice_id": "` + inv.ID.String() + `"}]}]}`

	rec := f.do(http.MethodPost, "/settlements/"+rem.ID.String(), body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got struct {
		Lines []struct {
			InvoiceRef string `json:"invoice_ref"`
			IrmLine    struct {
				IrmRef        string `json:"irm_ref"`
				CreditAccount string `json:"credit_account"`
				IrmUtilized   string `json:"irm_utilized"`
				ConvRate      string `json:"conv_rate"`
			} `json:"irm_line"`
		} `json:"lines"`
		Invoices []struct {
			Outstanding string `json:"outstanding"`
			Status      string `json:"status"`
		} `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got.Lines, 1)
	assert.Equal(t, "INV-1", got.Lines[0].InvoiceRef)
	assert.Regexp(t, `^IRM-\d{8}-[0-9A-F]{8}$`, got.Lines[0].IrmLine.IrmRef)
	assert.Equal(t, "ACC-9", got.Lines[0].IrmLine.CreditAccount)
	assert.Equal(t, "1000", got.Lines[0].IrmLine.IrmUtilized)
	assert.Equal(t, "1", got.Lines[0].IrmLine.ConvRate)

	require.Len(t, got.Invoices, 1)
	assert.Equal(t, "980", got.Invoices[0].Outstanding)
	assert.Equal(t, "Part Realized", got.Invoices[0].Status)
}

func TestHandler_Submit_Errors(t *testing.T) {
	type testCase struct {
		name     string
		body     func(inv bill.Invoice) string
		wantCode int
		wantKind string
	}

	tests := []testCase{
		{
			name: "Unbalanced",
			body: func(inv bill.Invoice) string {
				return `{"settlements": [{"credit_amount": "400", "rows": [{"invoice_id": "` + inv.ID.String() + `"}]}]}`
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "unallocated_balance",
		},
		{
			name: "TooManySettlements",
			body: func(bill.Invoice) string {
				return `{"settlements": [{}, {}]}`
			},
			wantCode: http.StatusUnprocessableEntity,
			wantKind: "invalid_draft",
		},
		{
			name: "UnknownInvoice",
			body: func(bill.Invoice) string {
				return `{"settlements": [{"rows": [{"invoice_id": "` + uuid.NewString() + `"}]}]}`
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rem := usdRemittance()
			inv := usdInvoice()

			f.repo.EXPECT().BeginSettle(gomock.Any(), rem.ID).Return(f.stx, nil)
			f.stx.EXPECT().Remittance(gomock.Any(), rem.ID).Return(rem, nil)
			f.stx.EXPECT().Invoices(gomock.Any(), gomock.Any()).Return([]bill.Invoice{inv}, nil)
			f.stx.EXPECT().Rollback().Return(nil)

			rec := f.do(http.MethodPost, "/settlements/"+rem.ID.String(), tt.body(inv))
			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantKind == "" {
				return
			}

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantKind, got["kind"])
			assert.NotEmpty(t, got["error"])
		})
	}
}

func TestHandler_BadRequest(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/settlements/nope", "{}").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/settlements/"+uuid.NewString(), "{").Code)
}
