package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	enc "github.com/MrJamesThe3rd/tradedesk/internal/encoding"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

// CSVParser reads remittance listings exported as CSV. The charset is detected and the
// separator may be a comma or a semicolon.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(r io.Reader) ([]remittance.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, comma := range []rune{',', ';'} {
		rows, err := readCSV(data, comma)
		if err != nil {
			continue
		}

		params, err := parseRows(rows)
		if errors.Is(err, ErrNoHeader) {
			continue
		}

		return params, err
	}

	return nil, ErrNoHeader
}

func readCSV(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}
