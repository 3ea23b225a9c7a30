package bill_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	httpbill "github.com/MrJamesThe3rd/tradedesk/internal/http/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

func newRouter(t *testing.T) (http.Handler, *bill.MockRepository) {
	ctrl := gomock.NewController(t)
	repo := bill.NewMockRepository(ctrl)

	r := chi.NewRouter()
	r.Route("/bills", httpbill.NewHandler(bill.NewService(repo)).Routes)

	return r, repo
}

func TestHandler_Create(t *testing.T) {
	router, repo := newRouter(t)

	repo.EXPECT().
		CreateBill(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, b *bill.ShippingBill) error {
			b.ID = uuid.New()
			for i := range b.Invoices {
				b.Invoices[i].ID = uuid.New()
				b.Invoices[i].BillID = b.ID
			}

			return nil
		})

	body := `{
		"sb_number": "SB-1",
		"sb_date": "2026-09-01T00:00:00Z",
		"buyer_name": "Acme",
		"invoices": [{"inv_number": "INV-1", "inv_date": "2026-08-30T00:00:00Z", "inv_value": "1000.50", "currency": "usd"}]
	}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bills/", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "Outstanding", got["status"])
	assert.Equal(t, "outstanding", got["status_code"])
	assert.Equal(t, "1000.5", got["total_outstanding"])

	invoices := got["invoices"].([]any)
	require.Len(t, invoices, 1)
	assert.Equal(t, "USD", invoices[0].(map[string]any)["currency"])
}

func TestHandler_Create_BadRequest(t *testing.T) {
	type testCase struct {
		name string
		body string
	}

	tests := []testCase{
		{name: "Malformed", body: `{`},
		{name: "MissingNumber", body: `{"sb_date": "2026-09-01T00:00:00Z"}`},
		{name: "InvoiceWithoutCurrency", body: `{"sb_number": "SB-1", "invoices": [{"inv_number": "INV-1"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newRouter(t)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bills/", strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	router, repo := newRouter(t)

	lodged := &bill.ShippingBill{
		ID:          uuid.New(),
		SBNumber:    "SB-1",
		LodgementNo: "L-1",
		Invoices:    []bill.Invoice{{InvNumber: "INV-1", InvValue: decimal.NewFromInt(100), Currency: "USD"}},
	}
	open := &bill.ShippingBill{
		ID:       uuid.New(),
		SBNumber: "SB-2",
		Invoices: []bill.Invoice{{InvNumber: "INV-2", InvValue: decimal.NewFromInt(100), Currency: "USD"}},
	}

	repo.EXPECT().
		ListBills(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, f bill.ListFilter) ([]*bill.ShippingBill, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, status.BillLodged, *f.Status)
			require.NotNil(t, f.StartDate)
			assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
			require.NotNil(t, f.Currency)
			assert.Equal(t, "USD", *f.Currency)

			return []*bill.ShippingBill{lodged, open}, nil
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bills/?status=lodged&start_date=2026-01-01&currency=usd", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "SB-1", got[0]["sb_number"])
	assert.Equal(t, "Lodged", got[0]["status"])
}

func TestHandler_List_UnknownStatus(t *testing.T) {
	router, _ := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bills/?status=closed", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Get(t *testing.T) {
	type testCase struct {
		name     string
		id       string
		setup    func(repo *bill.MockRepository, id uuid.UUID)
		wantCode int
	}

	id := uuid.New()

	tests := []testCase{
		{
			name: "Found",
			id:   id.String(),
			setup: func(repo *bill.MockRepository, id uuid.UUID) {
				repo.EXPECT().GetBill(gomock.Any(), id).Return(&bill.ShippingBill{ID: id, SBNumber: "SB-1"}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "NotFound",
			id:   id.String(),
			setup: func(repo *bill.MockRepository, id uuid.UUID) {
				repo.EXPECT().GetBill(gomock.Any(), id).Return(nil, bill.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:     "InvalidID",
			id:       "nope",
			setup:    func(*bill.MockRepository, uuid.UUID) {},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t)
			tt.setup(repo, id)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bills/"+tt.id, nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_Lodge(t *testing.T) {
	router, repo := newRouter(t)
	id := uuid.New()
	date := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().UpdateLodgement(gomock.Any(), id, "L-77", date).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bills/"+id.String()+"/lodgement",
		strings.NewReader(`{"lodgement_no": "L-77", "lodgement_date": "2026-10-01T00:00:00Z"}`)))

	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/bills/"+id.String()+"/lodgement",
		strings.NewReader(`{"lodgement_no": " "}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
