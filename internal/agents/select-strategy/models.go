// internal/agents/select-strategy/models.go
package selectstrategy

import "trade-intel/internal/models"

type Input struct {
	Parsed models.ParsedQuery `json:"parsedQuery"`
}

type Output struct {
	Strategy models.Strategy `json:"strategy"`

	// SearchQueries is the data-source search plan derived from the parse,
	// logged and used to label assembled records.
	SearchQueries []string `json:"searchQueries"`

	// Sources are the display names of the statistical sources the plan
	// draws on.
	Sources []string `json:"sources"`
}
