package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/tradedesk/internal/importer/sheet"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

type Service struct {
	csvImporter  Importer
	xlsxImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter:  sheet.NewCSVParser(),
		xlsxImporter: sheet.NewXLSXParser(),
	}
}

// FormatFromFilename picks the format from a file extension. Unknown extensions return "".
func FormatFromFilename(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}

	return ""
}

func (s *Service) Import(format Format, r io.Reader) ([]remittance.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatCSV:
		importer = s.csvImporter
	case FormatXLSX:
		importer = s.xlsxImporter
	default:
		return nil, fmt.Errorf("unknown format: %q", format)
	}

	return importer.Parse(r)
}
