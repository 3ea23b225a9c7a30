package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tradedesk/internal/money"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

var ErrNoHeader = errors.New("no remittance header found: expected reference, date, currency and amount columns")

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-06",
	"2006/01/02",
}

// parseRows finds the header row and turns the rows below it into remittances.
func parseRows(rows [][]string) ([]remittance.CreateParams, error) {
	headerIdx := -1

	var cols colIndex

	for i, row := range rows {
		if c, ok := matchHeader(row); ok {
			headerIdx, cols = i, c
			break
		}
	}

	if headerIdx < 0 {
		return nil, ErrNoHeader
	}

	var params []remittance.CreateParams

	for i, row := range rows[headerIdx+1:] {
		rowNum := headerIdx + i + 2

		date, ok := parseDate(cell(row, cols, fieldRemDate))
		if !ok {
			// Blank lines and footers carry no date.
			continue
		}

		ref := cell(row, cols, fieldRemRef)
		if ref == "" {
			return nil, fmt.Errorf("row %d: missing remittance reference", rowNum)
		}

		instructed, err := money.ParseAmount(cell(row, cols, fieldInstructed))
		if err != nil {
			slog.Debug("skipping remittance row", "row", rowNum, "rem_ref", ref, "error", err)
			continue
		}

		p := remittance.CreateParams{
			RemRef:       ref,
			RemDate:      date,
			Currency:     strings.ToUpper(cell(row, cols, fieldCurrency)),
			Instructed:   instructed,
			Charges:      optionalAmount(cell(row, cols, fieldCharges)),
			SenderRefNo:  cell(row, cols, fieldSenderRefNo),
			RemitterName: cell(row, cols, fieldRemitterName),
			Bank:         cell(row, cols, fieldBank),
		}

		if s := cell(row, cols, fieldNet); s != "" {
			if net, err := money.ParseAmount(s); err == nil {
				p.Net = &net
			}
		}

		if d, ok := parseDate(cell(row, cols, fieldSenderRefDate)); ok {
			p.SenderRefDate = &d
		}

		params = append(params, p)
	}

	return params, nil
}

func optionalAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}

	d, err := money.ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// parseDate accepts the common printed layouts and Excel date serials.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < 367 {
		return time.Time{}, false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}

	t = t.UTC().Round(time.Second)

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// cell returns the trimmed value of a field, or "" when the column is absent or the row
// is short.
func cell(row []string, cols colIndex, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
