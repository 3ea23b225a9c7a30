package bill

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=bill
type Repository interface {
	CreateBill(ctx context.Context, b *ShippingBill) error
	GetBill(ctx context.Context, id uuid.UUID) (*ShippingBill, error)
	ListBills(ctx context.Context, filter ListFilter) ([]*ShippingBill, error)
	UpdateLodgement(ctx context.Context, id uuid.UUID, lodgementNo string, lodgementDate time.Time) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	SBNumber      string
	SBDate        time.Time
	PortCode      string
	LodgementNo   string
	LodgementDate *time.Time
	BuyerName     string
	Placeholder   bool
	Invoices      []InvoiceParams
}

type InvoiceParams struct {
	InvNumber string
	InvDate   time.Time
	DueDate   *time.Time
	InvValue  decimal.Decimal
	Currency  string
}

// ListFilter narrows bill listings. Status is applied after summarizing since it is derived.
type ListFilter struct {
	Status    *status.Bill
	StartDate *time.Time
	EndDate   *time.Time
	Buyer     *string
	Currency  *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*ShippingBill, error) {
	if strings.TrimSpace(params.SBNumber) == "" && !params.Placeholder {
		return nil, fmt.Errorf("shipping bill number is required")
	}

	b := &ShippingBill{
		SBNumber:      params.SBNumber,
		SBDate:        params.SBDate,
		PortCode:      params.PortCode,
		LodgementNo:   params.LodgementNo,
		LodgementDate: params.LodgementDate,
		BuyerName:     params.BuyerName,
		Placeholder:   params.Placeholder,
		Invoices:      make([]Invoice, 0, len(params.Invoices)),
	}

	for _, p := range params.Invoices {
		b.Invoices = append(b.Invoices, Invoice{
			InvNumber: p.InvNumber,
			InvDate:   p.InvDate,
			DueDate:   p.DueDate,
			InvValue:  p.InvValue,
			Currency:  strings.ToUpper(p.Currency),
		})
	}

	if err := s.repo.CreateBill(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ShippingBill, error) {
	return s.repo.GetBill(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*ShippingBill, error) {
	bills, err := s.repo.ListBills(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Status == nil {
		return bills, nil
	}

	filtered := make([]*ShippingBill, 0, len(bills))

	for _, b := range bills {
		if SummarizeBill(*b).Status == *filter.Status {
			filtered = append(filtered, b)
		}
	}

	return filtered, nil
}

// Lodge records the bank lodgement of a bill, which makes its realization progress visible.
func (s *Service) Lodge(ctx context.Context, id uuid.UUID, lodgementNo string, lodgementDate time.Time) error {
	if strings.TrimSpace(lodgementNo) == "" {
		return fmt.Errorf("lodgement number is required")
	}

	return s.repo.UpdateLodgement(ctx, id, lodgementNo, lodgementDate)
}

// OpenInvoice is an invoice that still has an outstanding amount, with its bill context.
type OpenInvoice struct {
	Invoice   Invoice
	BillID    uuid.UUID
	SBNumber  string
	BuyerName string
	Summary   InvoiceSummary
}

// OutstandingInvoices lists invoices in currency that are not fully realized, oldest first
// as returned by the repository. An empty buyer matches every bill.
func (s *Service) OutstandingInvoices(ctx context.Context, currency, buyer string) ([]OpenInvoice, error) {
	filter := ListFilter{}
	if currency != "" {
		filter.Currency = new(strings.ToUpper(currency))
	}

	if buyer != "" {
		filter.Buyer = new(buyer)
	}

	bills, err := s.repo.ListBills(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	var open []OpenInvoice

	for _, b := range bills {
		for _, inv := range b.Invoices {
			if currency != "" && !strings.EqualFold(inv.Currency, currency) {
				continue
			}

			sum := SummarizeInvoice(inv)
			if sum.Status == status.InvoiceFullyRealized {
				continue
			}

			open = append(open, OpenInvoice{
				Invoice:   inv,
				BillID:    b.ID,
				SBNumber:  b.SBNumber,
				BuyerName: b.BuyerName,
				Summary:   sum,
			})
		}
	}

	return open, nil
}
