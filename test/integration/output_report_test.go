package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/payarrear/arrear-calculator/internal/output"
	"github.com/payarrear/arrear-calculator/internal/store/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatters(t *testing.T) {
	if got := output.FormatCurrency(decimal.NewFromInt(1234567)); got != "₹12,34,567" {
		t.Fatalf("FormatCurrency got %s", got)
	}
	if got := output.FormatAmount(decimal.NewFromFloat(-4825.4)); got != "-4,825" {
		t.Fatalf("FormatAmount got %s", got)
	}
}

func TestOutputGeneration(t *testing.T) {
	st := buildExample(t)
	dir := t.TempDir()

	for _, format := range output.AvailableFormatterNames() {
		t.Run(format, func(t *testing.T) {
			paths, err := output.GenerateReport(st, format, dir)
			require.NoError(t, err)
			require.Len(t, paths, 1)

			info, err := os.Stat(paths[0])
			require.NoError(t, err)
			assert.Positive(t, info.Size())
			assert.True(t, strings.HasSuffix(paths[0], "."+output.Extension(format)), paths[0])
		})
	}
}

func TestOutputGeneration_CSVMatchesTotals(t *testing.T) {
	st := buildExample(t)

	data, _, err := output.Render(st, "csv")
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	// header, twelve months, total
	require.Len(t, records, 14)
	last := records[len(records)-1]
	assert.Equal(t, "TOTAL", last[0])
	assert.Equal(t, st.Totals.DifferenceTotal.StringFixed(0), last[17])
}

func TestArchiveRoundTrip(t *testing.T) {
	st := buildExample(t)
	store, err := sqlite.New(filepath.Join(t.TempDir(), "arrear.db"))
	require.NoError(t, err)
	defer store.Close()

	rec, err := store.SaveStatement(context.Background(), st)
	require.NoError(t, err)

	got, err := store.GetStatement(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.True(t, got.DifferenceTotal.Equal(st.Totals.DifferenceTotal))

	want, _, err := output.Render(st, "summary-csv")
	require.NoError(t, err)
	reloaded, _, err := output.Render(got.Statement, "summary-csv")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(reloaded))
}
