// internal/models/query.go
package models

// Intent is the classified purpose of a trade query.
type Intent string

const (
	IntentImportAnalysis Intent = "import_analysis"
	IntentExportAnalysis Intent = "export_analysis"
	IntentUnknown        Intent = "unknown"
)

// Known reports whether the intent was resolved to import or export analysis.
func (i Intent) Known() bool {
	return i == IntentImportAnalysis || i == IntentExportAnalysis
}

// Strategy is the chosen method for locating trade records.
type Strategy string

const (
	StrategyByHSN           Strategy = "by_hsn"
	StrategyByProduct       Strategy = "by_product"
	StrategyByCountryRegion Strategy = "by_country_region"
	StrategyDefault         Strategy = "default"
)

// ParsedQuery is the structured form of a free-text trade query.
// Intent is always set; the optional fields are empty when the text
// carried no matching signal.
type ParsedQuery struct {
	Intent      Intent   `json:"intent"`
	HSNCode     string   `json:"hsn_code,omitempty"`
	ProductName string   `json:"product_name,omitempty"`
	Country     string   `json:"country,omitempty"`
	Year        int      `json:"year,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Identifier returns the value used to name export artifacts:
// HSN code when present, else product name, else "general".
func (p ParsedQuery) Identifier() string {
	if p.HSNCode != "" {
		return p.HSNCode
	}
	if p.ProductName != "" {
		return p.ProductName
	}
	return "general"
}
