// pkg/vocabulary/schema.go
package vocabulary

// Vocabulary holds the data-driven tables the query interpreter matches
// against. Keeping them in a file rather than code eases testing and
// localization.
type Vocabulary struct {
	Version        string    `json:"version"`
	Products       []Product `json:"products"`
	Countries      []Country `json:"countries"`
	ImportTriggers []string  `json:"importTriggers"`
	ExportTriggers []string  `json:"exportTriggers"`
}

// Product is a known traded good and its HSN classification.
type Product struct {
	Name     string   `json:"name"`
	HSNCode  string   `json:"hsnCode,omitempty"`
	Aliases  []string `json:"aliases,omitempty"`
	Partners []string `json:"partners,omitempty"`
}

// Country is a known country with the informal names it may appear under.
type Country struct {
	Name    string   `json:"name"`
	Region  string   `json:"region,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
}
