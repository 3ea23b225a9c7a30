package settlement_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradedesk/internal/money"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msg ...string) {
	t.Helper()

	diff := d(want).Sub(got).Abs()
	assert.True(t, diff.LessThanOrEqual(money.Epsilon), "want %s, got %s %v", want, got, msg)
}

func rem(currency, net, charges string) remittance.Remittance {
	return remittance.Remittance{
		ID:       uuid.New(),
		RemRef:   "REM-1",
		Currency: currency,
		Net:      d(net),
		Charges:  d(charges),
	}
}

func candidate(number, currency, outstanding string) settlement.Candidate {
	return settlement.Candidate{
		InvoiceID:   uuid.New(),
		InvNumber:   number,
		Value:       d(outstanding),
		Currency:    currency,
		Outstanding: d(outstanding),
	}
}

func TestNewAllocation(t *testing.T) {
	r := rem("EUR", "400000", "600")
	r.Utilized = d("100000")
	r.ChargesAttributed = d("150")
	r.LineCount = 1

	a := settlement.NewAllocation(r)

	assertAmount(t, "300000", a.RemittanceNet)
	assertAmount(t, "450", a.TotalFbCharges)
	require.Len(t, a.Settlements, 1)
	assertAmount(t, "300000", a.Settlements[0].CreditAmount)
	assertAmount(t, "0", a.OverallBalance())
	assertAmount(t, "300000", a.Available(0))
}

func TestAllocation_TwoSettlementSplit(t *testing.T) {
	a := settlement.NewAllocation(rem("EUR", "400000", "600"))

	a, err := a.SetCreditAmount(0, "250000")
	require.NoError(t, err)

	a, err = a.AddSettlement()
	require.NoError(t, err)
	require.Len(t, a.Settlements, 2)
	assertAmount(t, "150000", a.Settlements[1].CreditAmount, "seeded with remaining balance")

	a, err = a.AddInvoices(0, []settlement.Candidate{candidate("INV-A", "EUR", "250000")})
	require.NoError(t, err)

	a, err = a.AddInvoices(1, []settlement.Candidate{candidate("INV-B", "EUR", "300000")})
	require.NoError(t, err)

	assertAmount(t, "250000", a.Settlements[0].Rows[0].RemittanceUtilized)
	assertAmount(t, "150000", a.Settlements[1].Rows[0].RemittanceUtilized, "capped at settlement available")

	assertAmount(t, "375", a.SettlementCharge(0))
	assertAmount(t, "225", a.SettlementCharge(1))
	assertAmount(t, "375", a.Settlements[0].Rows[0].FbCharges)
	assertAmount(t, "225", a.Settlements[1].Rows[0].FbCharges)

	assertAmount(t, "0", a.OverallBalance())
	assert.NoError(t, settlement.Validate(a))
}

func TestAllocation_SettlementStatus(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "1000", "0"))
	assert.Equal(t, status.RemittanceNoneUtilized, a.SettlementStatus(0))

	a, err := a.AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "400")})
	require.NoError(t, err)
	assert.Equal(t, status.RemittancePartUtilized, a.SettlementStatus(0))

	a, err = a.EditCell(0, 0, settlement.FieldUtilized, "1000")
	require.NoError(t, err)
	assert.Equal(t, status.RemittanceUtilized, a.SettlementStatus(0))

	assert.Equal(t, status.RemittanceNoneUtilized, a.SettlementStatus(3))
}

func TestAllocation_MissingConversionRateBlocksSubmit(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "125000", "0"))

	a, err := a.AddInvoices(0, []settlement.Candidate{candidate("INV-GBP", "GBP", "220000")})
	require.NoError(t, err)

	row := a.Settlements[0].Rows[0]
	assert.Nil(t, row.ConvRate)
	assert.False(t, row.RateLocked)
	assertAmount(t, "125000", row.RemittanceUtilized)
	assertAmount(t, "0", row.InvoiceRealized)

	err = settlement.Validate(a)

	var missing *settlement.MissingConversionRateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "INV-GBP", missing.InvoiceRef)
	assert.Equal(t, 0, missing.Settlement)

	a, err = a.EditCell(0, 0, settlement.FieldConvRate, "0.8")
	require.NoError(t, err)
	assertAmount(t, "100000", a.Settlements[0].Rows[0].InvoiceRealized)
	assert.NoError(t, settlement.Validate(a))
}

func TestAllocation_ChargeConservation(t *testing.T) {
	type testCase struct {
		name    string
		net     string
		charges string
		credits []string
		// rows per settlement, as shares of the settlement credit
		rows [][]string
	}

	tests := []testCase{
		{name: "SingleRow", net: "1000", charges: "12.5", credits: []string{"1000"}, rows: [][]string{{"1"}}},
		{name: "Thirds", net: "1000", charges: "10", credits: []string{"333.33", "333.33", "333.34"}, rows: [][]string{{"1"}, {"1"}, {"1"}}},
		{name: "UnevenRows", net: "98765.43", charges: "321.09", credits: []string{"50000", "48765.43"}, rows: [][]string{{"0.3", "0.7"}, {"0.1", "0.2", "0.7"}}},
		{name: "TinyRemittance", net: "0.5", charges: "0.2", credits: []string{"0.5"}, rows: [][]string{{"1"}}},
		{name: "ChargesAboveNet", net: "0.75", charges: "0.5", credits: []string{"0.75"}, rows: [][]string{{"1"}}},
		{name: "SmallLeftoverSplit", net: "0.9", charges: "0.3", credits: []string{"0.4", "0.5"}, rows: [][]string{{"0.25", "0.75"}, {"1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := settlement.NewAllocation(rem("USD", tt.net, tt.charges))

			var err error

			for i, credit := range tt.credits {
				if i > 0 {
					a, err = a.AddSettlement()
					require.NoError(t, err)
				}

				a, err = a.SetCreditAmount(i, credit)
				require.NoError(t, err)

				for _, share := range tt.rows[i] {
					a, err = a.AddInvoices(i, []settlement.Candidate{candidate("INV", "USD", "10000000")})
					require.NoError(t, err)

					last := len(a.Settlements[i].Rows) - 1
					a, err = a.EditCell(i, last, settlement.FieldUtilized, d(credit).Mul(d(share)))
					require.NoError(t, err)
				}
			}

			total := decimal.Zero
			for _, s := range a.Settlements {
				for _, r := range s.Rows {
					total = total.Add(r.FbCharges)
				}
			}

			assertAmount(t, tt.charges, total)
			assert.NoError(t, settlement.Validate(a))
		})
	}
}

func TestAllocation_ChargesFollowEveryMutation(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "1000", "10"))

	a, err := a.AddInvoices(0, []settlement.Candidate{
		candidate("INV-1", "USD", "600"),
		candidate("INV-2", "USD", "600"),
	})
	require.NoError(t, err)

	rows := a.Settlements[0].Rows
	require.Len(t, rows, 2)
	assertAmount(t, "600", rows[0].RemittanceUtilized)
	assertAmount(t, "400", rows[1].RemittanceUtilized, "prefill stops at what is left")
	assertAmount(t, "6", rows[0].FbCharges)
	assertAmount(t, "4", rows[1].FbCharges)

	a = a.SetTotalCharges("20")
	assertAmount(t, "12", a.Settlements[0].Rows[0].FbCharges)

	a, err = a.RemoveRow(0, 1)
	require.NoError(t, err)
	require.Len(t, a.Settlements[0].Rows, 1)
	assertAmount(t, "600", a.Settlements[0].Rows[0].RemittanceUtilized, "siblings keep their amounts")
	assertAmount(t, "20", a.Settlements[0].Rows[0].FbCharges)
}

func TestAllocation_LenientEdits(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "1000", "0"))

	a, err := a.AddInvoices(0, []settlement.Candidate{
		candidate("INV-USD", "USD", "500"),
		candidate("INV-EUR", "EUR", "500"),
	})
	require.NoError(t, err)

	a, err = a.EditCell(0, 0, settlement.FieldUtilized, "not a number")
	require.NoError(t, err)
	assertAmount(t, "0", a.Settlements[0].Rows[0].RemittanceUtilized)
	assertAmount(t, "0", a.Settlements[0].Rows[0].InvoiceRealized)

	a, err = a.EditCell(0, 0, settlement.FieldConvRate, "2")
	require.NoError(t, err)
	require.NotNil(t, a.Settlements[0].Rows[0].ConvRate)
	assertAmount(t, "1", *a.Settlements[0].Rows[0].ConvRate, "rate stays fixed for same currency")

	a, err = a.EditCell(0, 1, settlement.FieldConvRate, "1.1")
	require.NoError(t, err)
	assertAmount(t, "550", a.Settlements[0].Rows[1].InvoiceRealized)

	a, err = a.EditCell(0, 1, settlement.FieldConvRate, "")
	require.NoError(t, err)
	assert.Nil(t, a.Settlements[0].Rows[1].ConvRate)
	assertAmount(t, "0", a.Settlements[0].Rows[1].InvoiceRealized)

	a, err = a.EditCell(0, 1, settlement.FieldUtilized, nil)
	require.NoError(t, err)
	assertAmount(t, "0", a.Settlements[0].Rows[1].RemittanceUtilized)

	_, err = a.EditCell(0, 0, settlement.Field("invoice_value"), "1")
	assert.Error(t, err)
}

func TestAllocation_Immutable(t *testing.T) {
	base := settlement.NewAllocation(rem("USD", "1000", "10"))

	withRow, err := base.AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "1000")})
	require.NoError(t, err)

	edited, err := withRow.EditCell(0, 0, settlement.FieldUtilized, "250")
	require.NoError(t, err)

	assert.Empty(t, base.Settlements[0].Rows)
	assertAmount(t, "1000", withRow.Settlements[0].Rows[0].RemittanceUtilized)
	assertAmount(t, "250", edited.Settlements[0].Rows[0].RemittanceUtilized)
}

func TestAllocation_AddInvoicesSkipsLinked(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "1000", "0"))
	c := candidate("INV-1", "USD", "300")

	a, err := a.AddInvoices(0, []settlement.Candidate{c})
	require.NoError(t, err)

	a, err = a.AddInvoices(0, []settlement.Candidate{c})
	require.NoError(t, err)

	assert.Len(t, a.Settlements[0].Rows, 1)
}

func TestAllocation_Errors(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "1000", "0"))

	_, err := a.AddSettlement()
	assert.ErrorIs(t, err, settlement.ErrFullyAllocated)

	_, err = a.SetCreditAmount(3, "1")
	assert.ErrorIs(t, err, settlement.ErrNoSuchSettlement)

	_, err = a.AddInvoices(-1, nil)
	assert.ErrorIs(t, err, settlement.ErrNoSuchSettlement)

	_, err = a.EditCell(0, 0, settlement.FieldUtilized, "1")
	assert.ErrorIs(t, err, settlement.ErrNoSuchRow)

	_, err = a.RemoveRow(0, 0)
	assert.ErrorIs(t, err, settlement.ErrNoSuchRow)

	_, err = a.RemoveSettlement(1)
	assert.ErrorIs(t, err, settlement.ErrNoSuchSettlement)

	assertAmount(t, "0", a.Available(5))
	assertAmount(t, "0", a.SettlementCharge(5))
}

func TestAllocation_RemoveSettlement(t *testing.T) {
	a := settlement.NewAllocation(rem("USD", "1000", "0"))

	a, err := a.SetCreditAmount(0, "400")
	require.NoError(t, err)

	a, err = a.AddSettlement()
	require.NoError(t, err)

	a, err = a.RemoveSettlement(0)
	require.NoError(t, err)
	require.Len(t, a.Settlements, 1)
	assertAmount(t, "600", a.Settlements[0].CreditAmount)
	assertAmount(t, "400", a.OverallBalance())

	a, err = a.AddSettlement()
	require.NoError(t, err)
	assertAmount(t, "400", a.Settlements[1].CreditAmount)
}

func TestValidate(t *testing.T) {
	type testCase struct {
		name     string
		build    func(t *testing.T) settlement.Allocation
		wantKind string
	}

	tests := []testCase{
		{
			name: "Balanced",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "5")).
					AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "1000")})
				require.NoError(t, err)

				return a
			},
		},
		{
			name: "UnallocatedBalance",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).SetCreditAmount(0, "900")
				require.NoError(t, err)

				a, err = a.AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "900")})
				require.NoError(t, err)

				return a
			},
			wantKind: "unallocated_balance",
		},
		{
			name: "OverCredited",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).SetCreditAmount(0, "1100")
				require.NoError(t, err)

				return a
			},
			wantKind: "unallocated_balance",
		},
		{
			name: "UnmappedSettlement",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).
					AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "700")})
				require.NoError(t, err)

				return a
			},
			wantKind: "unmapped_settlement",
		},
		{
			name: "OverMappedSettlement",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).
					AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "1000")})
				require.NoError(t, err)

				a, err = a.EditCell(0, 0, settlement.FieldUtilized, "1000.5")
				require.NoError(t, err)

				return a
			},
			wantKind: "unmapped_settlement",
		},
		{
			name: "WithinTolerance",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).
					AddInvoices(0, []settlement.Candidate{candidate("INV-1", "USD", "1000")})
				require.NoError(t, err)

				a, err = a.EditCell(0, 0, settlement.FieldUtilized, "999.995")
				require.NoError(t, err)

				return a
			},
		},
		{
			name: "MissingRate",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).
					AddInvoices(0, []settlement.Candidate{candidate("INV-1", "INR", "90000")})
				require.NoError(t, err)

				return a
			},
			wantKind: "missing_conversion_rate",
		},
		{
			name: "BalanceCheckedBeforeRates",
			build: func(t *testing.T) settlement.Allocation {
				a, err := settlement.NewAllocation(rem("USD", "1000", "0")).
					AddInvoices(0, []settlement.Candidate{candidate("INV-1", "INR", "500")})
				require.NoError(t, err)

				return a
			},
			wantKind: "unmapped_settlement",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := settlement.Validate(tt.build(t))

			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}

			var verr settlement.ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.wantKind, verr.Kind())
			assert.NotEmpty(t, verr.Details())
			assert.NotEmpty(t, verr.Error())
		})
	}
}
