// internal/export/writer_test.go
package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestWriter(t *testing.T) *Writer {
	writer, err := NewWriter(t.TempDir(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return writer
}

func sampleRecords() []models.TradeRecord {
	return []models.TradeRecord{
		{
			Country:     "Germany",
			CompanyName: "Germany Consignee_123 Co.",
			ValueUSD:    150000,
			Product:     "tea",
			Year:        2024,
			Quantity:    150,
			Unit:        "kg",
			FreightTerm: "FOB",
			PackageType: "Cartons",
			Origin:      "India",
			Destination: "Germany",
			Source:      "Open Trade Statistics",
		},
		{
			Country:     "Japan",
			CompanyName: "Japan Consignee_456 Co.",
			ValueUSD:    120000,
			Product:     "tea",
			Year:        2024,
			Quantity:    120,
			Unit:        "kg",
			FreightTerm: "CIF",
			PackageType: "Pallets",
			Origin:      "India",
			Destination: "Japan",
			Source:      "Open Trade Statistics",
		},
	}
}

// ==========================
// Filename Tests
// ==========================

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		parsed   models.ParsedQuery
		expected string
	}{
		{
			name: "product identifier",
			parsed: models.ParsedQuery{
				Intent:      models.IntentExportAnalysis,
				ProductName: "tea",
			},
			expected: "trade_data_tea_export_analysis.xlsx",
		},
		{
			name: "hsn code wins over product",
			parsed: models.ParsedQuery{
				Intent:      models.IntentImportAnalysis,
				HSNCode:     "8414",
				ProductName: "gas compressors",
			},
			expected: "trade_data_8414_import_analysis.xlsx",
		},
		{
			name: "spaces become underscores",
			parsed: models.ParsedQuery{
				Intent:      models.IntentImportAnalysis,
				ProductName: "gas compressors",
			},
			expected: "trade_data_gas_compressors_import_analysis.xlsx",
		},
		{
			name: "slashes become dashes",
			parsed: models.ParsedQuery{
				Intent:      models.IntentExportAnalysis,
				ProductName: "parts/accessories",
			},
			expected: "trade_data_parts-accessories_export_analysis.xlsx",
		},
		{
			name:     "no identifier falls back to general",
			parsed:   models.ParsedQuery{Intent: models.IntentUnknown},
			expected: "trade_data_general_unknown.xlsx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Filename(tt.parsed))
		})
	}
}

// ==========================
// Write Tests
// ==========================

func TestWriter_Write(t *testing.T) {
	writer := createTestWriter(t)
	parsed := models.ParsedQuery{Intent: models.IntentExportAnalysis, ProductName: "tea"}

	filename, err := writer.Write(parsed, sampleRecords())

	require.NoError(t, err)
	assert.Equal(t, "trade_data_tea_export_analysis.xlsx", filename)

	f, err := excelize.OpenFile(filepath.Join(writer.Dir(), filename))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Trade Data")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two records

	assert.Equal(t, "Country", rows[0][0])
	assert.Equal(t, "Germany", rows[1][0])
	assert.Equal(t, "Japan", rows[2][0])

	// HS Code was empty in every record, so the column is dropped.
	assert.NotContains(t, rows[0], "HS Code")
	assert.Contains(t, rows[0], "Freight Term")
}

func TestWriter_Write_EmptyRecords(t *testing.T) {
	writer := createTestWriter(t)
	parsed := models.ParsedQuery{Intent: models.IntentImportAnalysis}

	filename, err := writer.Write(parsed, nil)

	require.NoError(t, err)
	assert.Equal(t, "trade_data_general_import_analysis.xlsx", filename)

	f, err := excelize.OpenFile(filepath.Join(writer.Dir(), filename))
	require.NoError(t, err)
	defer f.Close()

	// Full header set is written even without records.
	rows, err := f.GetRows("Trade Data")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(columns))
}

func TestWriter_Write_OverwritesPreviousArtifact(t *testing.T) {
	writer := createTestWriter(t)
	parsed := models.ParsedQuery{Intent: models.IntentExportAnalysis, ProductName: "tea"}

	first, err := writer.Write(parsed, sampleRecords())
	require.NoError(t, err)
	second, err := writer.Write(parsed, sampleRecords()[:1])
	require.NoError(t, err)

	assert.Equal(t, first, second)

	f, err := excelize.OpenFile(filepath.Join(writer.Dir(), second))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Trade Data")
	require.NoError(t, err)
	assert.Len(t, rows, 2) // header + one record after overwrite
}

// ==========================
// Path Tests
// ==========================

func TestWriter_Path(t *testing.T) {
	writer := createTestWriter(t)
	parsed := models.ParsedQuery{Intent: models.IntentExportAnalysis, ProductName: "tea"}

	filename, err := writer.Write(parsed, sampleRecords())
	require.NoError(t, err)

	t.Run("existing artifact resolves", func(t *testing.T) {
		path, err := writer.Path(filename)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(writer.Dir(), filename), path)
	})

	t.Run("missing artifact returns not found", func(t *testing.T) {
		_, err := writer.Path("trade_data_missing_export_analysis.xlsx")
		require.Error(t, err)
		stdErr := commonerrors.AsStandard(err)
		assert.Equal(t, commonerrors.ErrCodeArtifactNotFound, stdErr.Code)
	})

	t.Run("traversal segments are stripped", func(t *testing.T) {
		secret := filepath.Join(writer.Dir(), "..", "secret.xlsx")
		require.NoError(t, os.WriteFile(secret, []byte("outside"), 0o644))

		_, err := writer.Path("../secret.xlsx")
		require.Error(t, err)
	})
}
