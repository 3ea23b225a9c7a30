package bill_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    bill.CreateParams
		setupMock func(m *bill.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: bill.CreateParams{
				SBNumber: "SB-1",
				SBDate:   time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
				Invoices: []bill.InvoiceParams{
					{InvNumber: "INV-1", InvValue: d("1000"), Currency: "usd"},
				},
			},
			setupMock: func(m *bill.MockRepository) {
				m.EXPECT().
					CreateBill(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, b *bill.ShippingBill) error {
						b.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "MissingNumber",
			params:  bill.CreateParams{},
			wantErr: true,
		},
		{
			name:   "PlaceholderWithoutNumber",
			params: bill.CreateParams{Placeholder: true},
			setupMock: func(m *bill.MockRepository) {
				m.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "RepoError",
			params: bill.CreateParams{SBNumber: "SB-2"},
			setupMock: func(m *bill.MockRepository) {
				m.EXPECT().CreateBill(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := bill.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := bill.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			for _, inv := range got.Invoices {
				assert.Equal(t, "USD", inv.Currency)
			}
		})
	}
}

func TestService_List_StatusFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := bill.NewMockRepository(ctrl)
	svc := bill.NewService(repo)

	lodged := &bill.ShippingBill{ID: uuid.New(), LodgementNo: "L-1", Invoices: []bill.Invoice{invoiceWith("100", "USD")}}
	unlodged := &bill.ShippingBill{ID: uuid.New(), Invoices: []bill.Invoice{invoiceWith("100", "USD")}}

	filter := bill.ListFilter{Status: new(status.BillLodged)}
	repo.EXPECT().ListBills(gomock.Any(), filter).Return([]*bill.ShippingBill{lodged, unlodged}, nil)

	got, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, lodged.ID, got[0].ID)
}

func TestService_Lodge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := bill.NewMockRepository(ctrl)
	svc := bill.NewService(repo)

	id := uuid.New()
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	err := svc.Lodge(context.Background(), id, "  ", date)
	assert.Error(t, err)

	repo.EXPECT().UpdateLodgement(gomock.Any(), id, "LDG-1", date).Return(nil)
	assert.NoError(t, svc.Lodge(context.Background(), id, "LDG-1", date))
}

func TestService_OutstandingInvoices(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := bill.NewMockRepository(ctrl)
	svc := bill.NewService(repo)

	realized := invoiceWith("100", "USD", bill.IrmLine{IrmUtilized: d("100"), InvRealized: d("100")})
	realized.InvNumber = "INV-DONE"

	open := invoiceWith("250", "USD")
	open.InvNumber = "INV-OPEN"

	euro := invoiceWith("300", "EUR")
	euro.InvNumber = "INV-EUR"

	b := &bill.ShippingBill{ID: uuid.New(), SBNumber: "SB-7", BuyerName: "ACME", Invoices: []bill.Invoice{realized, open, euro}}

	repo.EXPECT().
		ListBills(gomock.Any(), bill.ListFilter{Currency: new("USD"), Buyer: new("ACME")}).
		Return([]*bill.ShippingBill{b}, nil)

	got, err := svc.OutstandingInvoices(context.Background(), "usd", "ACME")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "INV-OPEN", got[0].Invoice.InvNumber)
	assert.Equal(t, "SB-7", got[0].SBNumber)
	assert.True(t, d("250").Equal(got[0].Summary.Outstanding))
}
