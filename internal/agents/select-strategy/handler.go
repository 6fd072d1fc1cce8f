// internal/agents/select-strategy/handler.go
package selectstrategy

import (
	"context"
	"fmt"
	"strings"

	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
	"trade-intel/pkg/vocabulary"
)

const TaskType = "select-strategy"

type Handler struct {
	config *Config
	voc    *vocabulary.Vocabulary
	logger logger.Logger
}

func NewHandler(config *Config, voc *vocabulary.Vocabulary, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		voc:    voc,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute maps a parsed query onto a fetch strategy. The selection is a
// total pure function of field presence in fixed priority order:
// hsn_code, then product_name, then country, then the fallback.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	parsed := input.Parsed

	strategy := models.StrategyDefault
	switch {
	case parsed.HSNCode != "":
		strategy = models.StrategyByHSN
	case parsed.ProductName != "":
		strategy = models.StrategyByProduct
	case parsed.Country != "":
		strategy = models.StrategyByCountryRegion
	}

	queries, sources := h.buildSearchPlan(parsed)

	h.logger.Info("strategy selected", map[string]interface{}{
		"strategy":     strategy,
		"queryCount":   len(queries),
		"sourceCount":  len(sources),
	})

	return &Output{
		Strategy:      strategy,
		SearchQueries: queries,
		Sources:       sources,
	}, nil
}

// buildSearchPlan composes the open-data search queries a human analyst
// would run for this parse: one base query, plus per-source queries when
// an HSN code narrows the subject, plus DGFT when India is the reporting
// country.
func (h *Handler) buildSearchPlan(parsed models.ParsedQuery) ([]string, []string) {
	var base strings.Builder
	if parsed.HSNCode != "" {
		fmt.Fprintf(&base, "HSN %s ", parsed.HSNCode)
	}
	if parsed.ProductName != "" {
		fmt.Fprintf(&base, "%s ", parsed.ProductName)
	}

	switch parsed.Intent {
	case models.IntentImportAnalysis:
		base.WriteString("import data ")
	case models.IntentExportAnalysis:
		base.WriteString("export data ")
	default:
		base.WriteString("trade data ")
	}

	if parsed.Country != "" {
		if parsed.Intent == models.IntentExportAnalysis {
			fmt.Fprintf(&base, "from %s ", parsed.Country)
		} else {
			fmt.Fprintf(&base, "to %s ", parsed.Country)
		}
	}
	base.WriteString("open source statistics")

	queries := []string{strings.TrimSpace(base.String())}
	sources := []string{"Open Trade Statistics"}

	intentWord := intentKeyword(parsed.Intent)
	if parsed.HSNCode != "" {
		queries = append(queries,
			fmt.Sprintf("UN Comtrade HSN %s", parsed.HSNCode),
			fmt.Sprintf("EU Eurostat HSN %s %s data", parsed.HSNCode, intentWord),
			fmt.Sprintf("US Census Bureau HSN %s %s statistics", parsed.HSNCode, intentWord),
		)
		sources = append(sources, "UN Comtrade", "Eurostat", "US Census Bureau")

		if parsed.Country != "" && h.voc.NormalizeCountry(parsed.Country) == "India" {
			queries = append(queries, fmt.Sprintf("DGFT India HSN %s %s data", parsed.HSNCode, intentWord))
			sources = append(sources, "DGFT India")
		}
	}

	return queries, sources
}

func intentKeyword(intent models.Intent) string {
	switch intent {
	case models.IntentImportAnalysis:
		return "import"
	case models.IntentExportAnalysis:
		return "export"
	default:
		return "trade"
	}
}
