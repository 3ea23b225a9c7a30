package view

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tradedesk/internal/export"
)

func TestWriteWorkbookFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	path, err := writeWorkbookFile(export.NewService(nil), nil, dir, now)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "realization_20261018_093000.xlsx"), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Realization")
}
