package importer

import (
	"io"

	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

type Importer interface {
	Parse(r io.Reader) ([]remittance.CreateParams, error)
}
