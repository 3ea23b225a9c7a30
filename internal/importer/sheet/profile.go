package sheet

import (
	"strings"
	"unicode"
)

type field int

const (
	fieldRemRef field = iota
	fieldRemDate
	fieldCurrency
	fieldInstructed
	fieldCharges
	fieldNet
	fieldSenderRefNo
	fieldSenderRefDate
	fieldRemitterName
	fieldBank
)

// aliases lists the header names accepted for each field, most specific first. Names are
// compared after normalizeHeader.
var aliases = map[field][]string{
	fieldRemRef:        {"remittanceref", "remref", "remittancereference", "irmref", "transactionref", "referenceno", "reference"},
	fieldRemDate:       {"remittancedate", "remdate", "valuedate", "creditdate", "date"},
	fieldCurrency:      {"currency", "ccy", "remittancecurrency"},
	fieldInstructed:    {"instructedamount", "remittanceamount", "grossamount", "amount"},
	fieldCharges:       {"charges", "bankcharges", "fbcharges", "foreignbankcharges"},
	fieldNet:           {"netamount", "net", "creditamount", "amountcredited"},
	fieldSenderRefNo:   {"senderrefno", "senderref", "senderreference", "senderreferenceno"},
	fieldSenderRefDate: {"senderrefdate", "senderreferencedate"},
	fieldRemitterName:  {"remittername", "remitter", "orderingcustomer", "payer"},
	fieldBank:          {"bank", "remittingbank", "bankname"},
}

var requiredFields = []field{fieldRemRef, fieldRemDate, fieldCurrency, fieldInstructed}

// normalizeHeader lowercases a header cell and drops everything but letters and digits, so
// "Rem. Ref", "rem_ref" and "REM REF" compare equal.
func normalizeHeader(s string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// colIndex maps fields to their index in a row.
type colIndex map[field]int

// matchHeader resolves the fields of a candidate header row. It reports false unless every
// required field is present.
func matchHeader(row []string) (colIndex, bool) {
	byName := make(map[string]int, len(row))

	for i, cell := range row {
		name := normalizeHeader(cell)
		if name == "" {
			continue
		}

		if _, ok := byName[name]; !ok {
			byName[name] = i
		}
	}

	cols := make(colIndex)

	for f, names := range aliases {
		for _, name := range names {
			if i, ok := byName[name]; ok {
				cols[f] = i
				break
			}
		}
	}

	for _, f := range requiredFields {
		if _, ok := cols[f]; !ok {
			return nil, false
		}
	}

	return cols, true
}
