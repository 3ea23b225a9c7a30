package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

const (
	sheetRealization = "Realization"
	sheetIrmLines    = "IRM Lines"
)

//go:generate mockgen -source=service.go -destination=lister_mock.go -package=export
type BillLister interface {
	List(ctx context.Context, filter bill.ListFilter) ([]*bill.ShippingBill, error)
}

// Item is one exported bill with its derived totals.
type Item struct {
	Bill    *bill.ShippingBill
	Summary bill.BillSummary
}

// Service builds bill realization reports.
type Service struct {
	bills BillLister
}

func NewService(bills BillLister) *Service {
	return &Service{bills: bills}
}

// Export loads the bills matching filter and summarizes each of them.
func (s *Service) Export(ctx context.Context, filter bill.ListFilter) ([]Item, error) {
	bills, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	items := make([]Item, 0, len(bills))

	for _, b := range bills {
		items = append(items, Item{
			Bill:    b,
			Summary: bill.SummarizeBill(*b),
		})
	}

	return items, nil
}

var realizationHeader = []any{
	"SB Number", "SB Date", "Buyer", "Lodgement No", "Bill Status",
	"Invoice", "Invoice Date", "Currency", "Invoice Value", "Realized", "FB Charges", "Outstanding", "Invoice Status",
}

var irmHeader = []any{
	"SB Number", "Invoice", "Rem Ref", "Remitter", "IRM Ref", "IRM Date", "Purpose Code",
	"Utilized", "Rem Currency", "Conv Rate", "Realized", "FB Charges",
}

// WriteWorkbook writes items as an xlsx workbook: one row per invoice on the first sheet and
// one row per IRM line on the second.
func (s *Service) WriteWorkbook(items []Item, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetRealization); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	if _, err := f.NewSheet(sheetIrmLines); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	for sheet, header := range map[string][]any{sheetRealization: realizationHeader, sheetIrmLines: irmHeader} {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("writing %s header: %w", sheet, err)
		}

		end, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", end, bold); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet, err)
		}
	}

	invRow, lineRow := 2, 2

	for _, item := range items {
		b := item.Bill

		for i, inv := range b.Invoices {
			sum := item.Summary.Invoices[i]

			row := []any{
				b.SBNumber, b.SBDate.Format("2006-01-02"), b.BuyerName, b.LodgementNo, item.Summary.Status.Label(),
				inv.InvNumber, inv.InvDate.Format("2006-01-02"), inv.Currency,
				sum.Value.InexactFloat64(), sum.Realized.InexactFloat64(), sum.FbCharges.InexactFloat64(),
				sum.Outstanding.InexactFloat64(), sum.Status.Label(),
			}

			if err := setRow(f, sheetRealization, invRow, row); err != nil {
				return err
			}

			invRow++

			for _, group := range inv.Remittances {
				for _, l := range group.IrmLines {
					rate := ""
					if l.ConvRate != nil {
						rate = l.ConvRate.String()
					}

					row := []any{
						b.SBNumber, inv.InvNumber, group.RemRef, group.RemitterName, l.IrmRef, l.IrmDate.Format("2006-01-02"),
						l.PurposeCode, l.IrmUtilized.InexactFloat64(), group.Currency, rate,
						l.InvRealized.InexactFloat64(), l.FbChargesRem.InexactFloat64(),
					}

					if err := setRow(f, sheetIrmLines, lineRow, row); err != nil {
						return err
					}

					lineRow++
				}
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}

	return nil
}

// GenerateSummary renders a plain-text digest of the items, one block per bill.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	realized := 0

	for _, item := range items {
		b := item.Bill

		if item.Summary.Status == status.BillRealized {
			realized++
		}

		fmt.Fprintf(&sb, "* %s | %s | %s | %s\n", b.SBNumber, b.SBDate.Format("2006-01-02"), b.BuyerName, item.Summary.Status)

		for i, inv := range b.Invoices {
			sum := item.Summary.Invoices[i]

			fmt.Fprintf(&sb, "    %s | %s %s | realized %s | outstanding %s | %s\n",
				inv.InvNumber,
				inv.Currency, sum.Value.StringFixed(2),
				sum.Realized.StringFixed(2),
				sum.Outstanding.StringFixed(2),
				sum.Status,
			)
		}
	}

	fmt.Fprintf(&sb, "%d bills, %d realized\n", len(items), realized)

	return sb.String()
}
