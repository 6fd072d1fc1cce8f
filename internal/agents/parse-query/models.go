// internal/agents/parse-query/models.go
package parsequery

import "trade-intel/internal/models"

type Input struct {
	Query string `json:"query"`
}

type Output struct {
	Parsed models.ParsedQuery `json:"parsedQuery"`
}
