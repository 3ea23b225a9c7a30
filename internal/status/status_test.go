package status_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassifyInvoice(t *testing.T) {
	type testCase struct {
		name        string
		realized    string
		outstanding string
		want        status.Invoice
	}

	tests := []testCase{
		{name: "NothingRealized", realized: "0", outstanding: "100000", want: status.InvoiceNoneRealized},
		{name: "Partial", realized: "100000", outstanding: "120000", want: status.InvoicePartiallyRealized},
		{name: "Full", realized: "100000", outstanding: "0", want: status.InvoiceFullyRealized},
		{name: "RoundingResidue", realized: "99999.995", outstanding: "0.005", want: status.InvoiceFullyRealized},
		{name: "ChargesOnly", realized: "0", outstanding: "99400", want: status.InvoiceNoneRealized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.ClassifyInvoice(d(tt.realized), d(tt.outstanding)))
		})
	}
}

func TestClassifyInvoice_Monotonic(t *testing.T) {
	value := d("1000")
	prev := status.InvoiceNoneRealized

	for realized := 0; realized <= 1000; realized += 50 {
		r := decimal.NewFromInt(int64(realized))
		got := status.ClassifyInvoice(r, value.Sub(r))

		assert.GreaterOrEqual(t, int(got), int(prev), "status went backwards at realized=%d", realized)

		prev = got
	}

	assert.Equal(t, status.InvoiceFullyRealized, prev)
}

func TestClassifyBill(t *testing.T) {
	type testCase struct {
		name   string
		totals status.BillTotals
		want   status.Bill
	}

	tests := []testCase{
		{
			name:   "NotLodgedIgnoresRealization",
			totals: status.BillTotals{Lodged: false, HasLines: true, TotalFob: d("100"), TotalOutstanding: d("0")},
			want:   status.BillOutstanding,
		},
		{
			name:   "LodgedNothingRealized",
			totals: status.BillTotals{Lodged: true, TotalFob: d("100"), TotalOutstanding: d("100")},
			want:   status.BillLodged,
		},
		{
			name:   "LodgedPartRealized",
			totals: status.BillTotals{Lodged: true, HasLines: true, TotalFob: d("100"), TotalOutstanding: d("40")},
			want:   status.BillPartRealized,
		},
		{
			name:   "LodgedRealized",
			totals: status.BillTotals{Lodged: true, HasLines: true, TotalFob: d("100"), TotalOutstanding: d("0")},
			want:   status.BillRealized,
		},
		{
			name:   "ZeroValueBillIsNotRealized",
			totals: status.BillTotals{Lodged: true, TotalFob: d("0"), TotalOutstanding: d("0")},
			want:   status.BillLodged,
		},
		{
			name:   "PlaceholderWithoutLines",
			totals: status.BillTotals{Placeholder: true, TotalFob: d("0"), TotalOutstanding: d("0")},
			want:   status.BillOutstanding,
		},
		{
			name:   "PlaceholderWithLinesAndNoValue",
			totals: status.BillTotals{Placeholder: true, HasLines: true, TotalFob: d("0"), TotalOutstanding: d("0")},
			want:   status.BillRealized,
		},
		{
			name:   "PlaceholderPartlySettled",
			totals: status.BillTotals{Placeholder: true, HasLines: true, TotalFob: d("500"), TotalOutstanding: d("200")},
			want:   status.BillPartRealized,
		},
		{
			name:   "PlaceholderFullySettled",
			totals: status.BillTotals{Placeholder: true, HasLines: true, TotalFob: d("500"), TotalOutstanding: d("0")},
			want:   status.BillRealized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.ClassifyBill(tt.totals))
		})
	}
}

func TestClassifyRemittance(t *testing.T) {
	type testCase struct {
		name     string
		hasLines bool
		utilized string
		credit   string
		want     status.Remittance
	}

	tests := []testCase{
		{name: "NoLines", hasLines: false, utilized: "0", credit: "1000", want: status.RemittanceNoneUtilized},
		{name: "ZeroUtilized", hasLines: true, utilized: "0", credit: "1000", want: status.RemittanceNoneUtilized},
		{name: "Part", hasLines: true, utilized: "400", credit: "1000", want: status.RemittancePartUtilized},
		{name: "Full", hasLines: true, utilized: "1000", credit: "1000", want: status.RemittanceUtilized},
		{name: "WithinEpsilon", hasLines: true, utilized: "999.995", credit: "1000", want: status.RemittanceUtilized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.ClassifyRemittance(tt.hasLines, d(tt.utilized), d(tt.credit)))
		})
	}
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Realized", status.InvoiceFullyRealized.Label())
	assert.Equal(t, "Lodged", status.BillLodged.Label())
	assert.Equal(t, "Un-utilized", status.RemittanceNoneUtilized.Label())

	b, err := json.Marshal(status.BillPartRealized)
	require.NoError(t, err)
	assert.JSONEq(t, `"Part Realized"`, string(b))

	got, ok := status.ParseBill("realized")
	assert.True(t, ok)
	assert.Equal(t, status.BillRealized, got)

	_, ok = status.ParseBill("closed")
	assert.False(t, ok)
}

func TestParseRemittance(t *testing.T) {
	got, ok := status.ParseRemittance("part_utilized")
	assert.True(t, ok)
	assert.Equal(t, status.RemittancePartUtilized, got)

	_, ok = status.ParseRemittance("Part Utilized")
	assert.False(t, ok)
}
