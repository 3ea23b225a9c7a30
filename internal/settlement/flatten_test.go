package settlement_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
)

func counterRefs() settlement.RefGenerator {
	n := 0

	return settlement.RefFunc(func(date time.Time) string {
		n++
		return fmt.Sprintf("IRM-%s-%d", date.Format("20060102"), n)
	})
}

func TestFlatten(t *testing.T) {
	today := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	a := settlement.NewAllocation(rem("EUR", "400000", "600"))

	a, err := a.SetCreditAmount(0, "250000")
	require.NoError(t, err)

	a, err = a.SetDetails(0, settlement.Details{CreditAccount: " ACC-1 ", PurposeCode: "P0103", PurposeDesc: "Advance"})
	require.NoError(t, err)

	a, err = a.AddSettlement()
	require.NoError(t, err)

	a, err = a.AddInvoices(0, []settlement.Candidate{candidate("INV-A", "EUR", "250000")})
	require.NoError(t, err)

	a, err = a.AddInvoices(1, []settlement.Candidate{
		candidate("INV-B", "EUR", "100000"),
		candidate("INV-C", "USD", "60000"),
	})
	require.NoError(t, err)

	a, err = a.EditCell(1, 1, settlement.FieldConvRate, "1.0833333333")
	require.NoError(t, err)

	lines := settlement.Flatten(a, today, counterRefs())
	require.Len(t, lines, 3)

	assert.Equal(t, "IRM-20261018-1", lines[0].IrmLine.IrmRef)
	assert.Equal(t, "IRM-20261018-3", lines[2].IrmLine.IrmRef)
	assert.Equal(t, 0, lines[0].Settlement)
	assert.Equal(t, 1, lines[2].Settlement)
	assert.Equal(t, "INV-C", lines[2].InvoiceRef)
	assert.Equal(t, a.Settlements[1].Rows[1].InvoiceID, lines[2].InvoiceID)

	first := lines[0].IrmLine
	assert.Equal(t, today, first.IrmDate)
	assert.Equal(t, "ACC-1", first.CreditAccount)
	assert.Equal(t, "P0103", first.PurposeCode)
	assertAmount(t, "250000", first.IrmUtilized)
	assertAmount(t, "375", first.FbChargesRem)

	last := lines[2].IrmLine
	require.NotNil(t, last.ConvRate)
	assert.Equal(t, int32(-8), last.ConvRate.Exponent())
	assertAmount(t, "50000", last.IrmUtilized)
	assertAmount(t, "54166.67", last.InvRealized)

	total := settlement.Utilized(lines)
	assertAmount(t, "400000", total)
}

func TestNewRefGenerator(t *testing.T) {
	refs := settlement.NewRefGenerator("IRM")
	date := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	a := refs.Next(date)
	b := refs.Next(date)

	assert.Regexp(t, regexp.MustCompile(`^IRM-20260102-[0-9A-F]{8}$`), a)
	assert.NotEqual(t, a, b)
}
