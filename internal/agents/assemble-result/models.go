// internal/agents/assemble-result/models.go
package assembleresult

import "trade-intel/internal/models"

type Input struct {
	Query         string             `json:"query"`
	Parsed        models.ParsedQuery `json:"parsedQuery"`
	Strategy      models.Strategy    `json:"strategy"`
	SearchQueries []string           `json:"searchQueries,omitempty"`
	Sources       []string           `json:"sources,omitempty"`
}

type Output struct {
	Result models.AnalysisResult `json:"result"`
}
