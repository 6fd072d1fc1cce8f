// internal/export/writer.go
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
)

const sheetName = "Trade Data"

// column describes one exportable field and how to read it off a record.
// Columns whose value is empty across every record are left out of the
// sheet entirely.
type column struct {
	header string
	value  func(models.TradeRecord) interface{}
	isSet  func(models.TradeRecord) bool
}

var columns = []column{
	{"Country", func(r models.TradeRecord) interface{} { return r.Country }, func(r models.TradeRecord) bool { return r.Country != "" }},
	{"Company Name", func(r models.TradeRecord) interface{} { return r.CompanyName }, func(r models.TradeRecord) bool { return r.CompanyName != "" }},
	{"Value USD", func(r models.TradeRecord) interface{} { return r.ValueUSD }, func(r models.TradeRecord) bool { return r.ValueUSD != 0 }},
	{"HS Code", func(r models.TradeRecord) interface{} { return r.HSNCode }, func(r models.TradeRecord) bool { return r.HSNCode != "" }},
	{"Product", func(r models.TradeRecord) interface{} { return r.Product }, func(r models.TradeRecord) bool { return r.Product != "" }},
	{"Year", func(r models.TradeRecord) interface{} { return r.Year }, func(r models.TradeRecord) bool { return r.Year != 0 }},
	{"Quantity", func(r models.TradeRecord) interface{} { return r.Quantity }, func(r models.TradeRecord) bool { return r.Quantity != 0 }},
	{"Unit", func(r models.TradeRecord) interface{} { return r.Unit }, func(r models.TradeRecord) bool { return r.Unit != "" }},
	{"Freight Term", func(r models.TradeRecord) interface{} { return r.FreightTerm }, func(r models.TradeRecord) bool { return r.FreightTerm != "" }},
	{"Package Type", func(r models.TradeRecord) interface{} { return r.PackageType }, func(r models.TradeRecord) bool { return r.PackageType != "" }},
	{"Country of Origin", func(r models.TradeRecord) interface{} { return r.Origin }, func(r models.TradeRecord) bool { return r.Origin != "" }},
	{"Country of Destination", func(r models.TradeRecord) interface{} { return r.Destination }, func(r models.TradeRecord) bool { return r.Destination != "" }},
	{"Source", func(r models.TradeRecord) interface{} { return r.Source }, func(r models.TradeRecord) bool { return r.Source != "" }},
}

// Writer writes analysis results to .xlsx artifacts under a fixed
// directory. Repeated identical parses overwrite the same file.
type Writer struct {
	dir    string
	logger logger.Logger
}

func NewWriter(dir string, log logger.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Writer{
		dir:    dir,
		logger: log.WithFields(map[string]interface{}{"component": "export-writer"}),
	}, nil
}

// Filename derives the deterministic artifact name for a parsed query:
// trade_data_<hsn-or-product-or-general>_<intent>.xlsx with spaces
// replaced by underscores and slashes by dashes.
func Filename(parsed models.ParsedQuery) string {
	identifier := parsed.Identifier()
	identifier = strings.ReplaceAll(identifier, " ", "_")
	identifier = strings.ReplaceAll(identifier, "/", "-")
	return fmt.Sprintf("trade_data_%s_%s.xlsx", identifier, parsed.Intent)
}

// Write serializes the records to the artifact for this parse and
// returns the bare filename. An empty record set still produces a file
// so the download link stays valid.
func (w *Writer) Write(parsed models.ParsedQuery, records []models.TradeRecord) (string, error) {
	filename := Filename(parsed)
	path := filepath.Join(w.dir, filename)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	active := activeColumns(records)
	headers := make([]interface{}, len(active))
	for i, col := range active {
		headers[i] = col.header
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return "", commonerrors.NewExportWriteFailedError(filename, err)
	}

	for i, record := range records {
		row := make([]interface{}, len(active))
		for j, col := range active {
			if col.isSet(record) {
				row[j] = col.value(record)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", commonerrors.NewExportWriteFailedError(filename, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", commonerrors.NewExportWriteFailedError(filename, err)
	}

	w.logger.Info("export artifact written", map[string]interface{}{
		"filename": filename,
		"records":  len(records),
	})
	return filename, nil
}

// Path resolves a previously generated filename inside the export dir.
// Only the base name is honored, so traversal segments are discarded.
func (w *Writer) Path(filename string) (string, error) {
	clean := filepath.Base(filename)
	path := filepath.Join(w.dir, clean)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", commonerrors.NewArtifactNotFoundError(clean)
	}
	return path, nil
}

// Dir returns the export directory.
func (w *Writer) Dir() string {
	return w.dir
}

// activeColumns keeps the columns populated in at least one record,
// preserving the fixed column order. With no records at all the full
// header set is written for consistency.
func activeColumns(records []models.TradeRecord) []column {
	if len(records) == 0 {
		return columns
	}
	var active []column
	for _, col := range columns {
		for _, r := range records {
			if col.isSet(r) {
				active = append(active, col)
				break
			}
		}
	}
	return active
}
