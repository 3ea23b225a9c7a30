package settlement

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
)

// RefGenerator hands out IRM references.
type RefGenerator interface {
	Next(date time.Time) string
}

// RefFunc adapts a function to RefGenerator.
type RefFunc func(date time.Time) string

func (f RefFunc) Next(date time.Time) string { return f(date) }

// NewRefGenerator returns references of the form PREFIX-YYYYMMDD-XXXXXXXX, where the
// suffix is taken from a random UUID.
func NewRefGenerator(prefix string) RefGenerator {
	return RefFunc(func(date time.Time) string {
		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
		return prefix + "-" + date.Format("20060102") + "-" + suffix
	})
}

// Line is an IRM line ready to be recorded against an invoice.
type Line struct {
	Settlement int
	InvoiceID  uuid.UUID
	InvoiceRef string
	IrmLine    bill.IrmLine
}

// Flatten turns every invoice row of a into an IRM line dated today. Amounts are rounded
// to the precision they are stored with.
func Flatten(a Allocation, today time.Time, refs RefGenerator) []Line {
	var lines []Line

	for i, s := range a.Settlements {
		for _, r := range s.Rows {
			line := bill.IrmLine{
				IrmRef:        refs.Next(today),
				IrmDate:       today,
				PurposeCode:   s.PurposeCode,
				PurposeDesc:   s.PurposeDesc,
				CreditAccount: s.CreditAccount,
				IrmUtilized:   r.RemittanceUtilized.Round(4),
				InvRealized:   r.InvoiceRealized.Round(4),
				FbChargesRem:  r.FbCharges.Round(4),
			}

			if r.ConvRate != nil {
				rate := r.ConvRate.Round(8)
				line.ConvRate = &rate
			}

			lines = append(lines, Line{
				Settlement: i,
				InvoiceID:  r.InvoiceID,
				InvoiceRef: r.InvoiceRef,
				IrmLine:    line,
			})
		}
	}

	return lines
}
