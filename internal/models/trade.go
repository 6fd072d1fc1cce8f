// internal/models/trade.go
package models

// TradeRecord is one flat row of trade data. Country always names the
// partner side of the trade, never the reporting country from the query.
// Optional shipment fields stay empty when the source had no value.
type TradeRecord struct {
	Country     string  `json:"country"`
	CompanyName string  `json:"company_name,omitempty"`
	ValueUSD    float64 `json:"value_usd"`
	HSNCode     string  `json:"hsn_code,omitempty"`
	Product     string  `json:"product,omitempty"`
	Year        int     `json:"year,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	FreightTerm string  `json:"freight_term,omitempty"`
	PackageType string  `json:"package_type,omitempty"`
	Origin      string  `json:"origin,omitempty"`
	Destination string  `json:"destination,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// AnalysisResult is the full response for one analyzed query.
type AnalysisResult struct {
	Query           string        `json:"query"`
	ParsedQuery     ParsedQuery   `json:"parsed_query"`
	Strategy        Strategy      `json:"strategy"`
	TradeData       []TradeRecord `json:"trade_data"`
	Recommendations []string      `json:"recommendations"`
	DownloadLink    string        `json:"download_link"`
}
