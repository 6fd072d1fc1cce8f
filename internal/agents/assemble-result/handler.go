// internal/agents/assemble-result/handler.go
package assembleresult

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"trade-intel/internal/common/logger"
	"trade-intel/internal/export"
	"trade-intel/internal/models"
	"trade-intel/internal/store"
	"trade-intel/pkg/vocabulary"
)

const TaskType = "assemble-result"

var (
	freightTerms = []string{"FOB", "CIF", "EXW"}
	packageTypes = []string{"Cartons", "Pallets", "Boxes"}
	units        = []string{"kg", "units", "tons"}
)

type Handler struct {
	config  *Config
	catalog store.Catalog
	writer  *export.Writer
	voc     *vocabulary.Vocabulary
	logger  logger.Logger
}

func NewHandler(config *Config, catalog store.Catalog, writer *export.Writer, voc *vocabulary.Vocabulary, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		catalog: catalog,
		writer:  writer,
		voc:     voc,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute assembles trade records for the chosen strategy, derives
// recommendations, writes the export artifact, and returns the complete
// analysis result. Only the artifact write can fail.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	entry := h.resolveEntry(ctx, input)
	records := h.buildRecords(input, entry)
	recommendations := h.buildRecommendations(input.Parsed, records)

	filename, err := h.writer.Write(input.Parsed, records)
	if err != nil {
		return nil, err
	}

	h.logger.Info("analysis assembled", map[string]interface{}{
		"strategy": input.Strategy,
		"records":  len(records),
		"filename": filename,
	})

	return &Output{
		Result: models.AnalysisResult{
			Query:           input.Query,
			ParsedQuery:     input.Parsed,
			Strategy:        input.Strategy,
			TradeData:       records,
			Recommendations: recommendations,
			DownloadLink:    "/download/" + filename,
		},
	}, nil
}

// resolveEntry finds the catalog row for the strategy. A missing entry or
// a failing backend degrades to the default partner list rather than
// failing the request.
func (h *Handler) resolveEntry(ctx context.Context, input *Input) store.ProductEntry {
	parsed := input.Parsed
	fallback := store.ProductEntry{
		Name:     parsed.ProductName,
		HSNCode:  parsed.HSNCode,
		Partners: store.DefaultPartners,
	}

	var (
		entry store.ProductEntry
		found bool
		err   error
	)

	switch input.Strategy {
	case models.StrategyByHSN:
		entry, found, err = h.catalog.ProductByHSN(ctx, parsed.HSNCode)
	case models.StrategyByProduct:
		entry, found, err = h.catalog.ProductByName(ctx, parsed.ProductName)
	case models.StrategyByCountryRegion:
		region := h.voc.RegionOf(h.voc.NormalizeCountry(parsed.Country))
		var partners []string
		partners, err = h.catalog.PartnersForRegion(ctx, region)
		if err == nil && len(partners) > 0 {
			entry, found = store.ProductEntry{Partners: partners}, true
		}
	default:
		// fallthrough to defaults
	}

	if err != nil {
		h.logger.Warn("catalog lookup failed, using default partners", map[string]interface{}{
			"strategy": input.Strategy,
			"error":    err.Error(),
		})
		return fallback
	}
	if !found {
		return fallback
	}

	if entry.Name == "" {
		entry.Name = parsed.ProductName
	}
	if entry.HSNCode == "" {
		entry.HSNCode = parsed.HSNCode
	}
	if len(entry.Partners) == 0 {
		entry.Partners = store.DefaultPartners
	}
	return entry
}

// buildRecords synthesizes one partner-country row per catalog partner,
// excluding the reporting country from the query. Values are derived
// from a stable hash so identical parses produce identical rows.
func (h *Handler) buildRecords(input *Input, entry store.ProductEntry) []models.TradeRecord {
	parsed := input.Parsed
	reporting := ""
	if parsed.Country != "" {
		reporting = h.voc.NormalizeCountry(parsed.Country)
	}

	year := parsed.Year
	if year == 0 {
		year = h.config.DefaultYear
	}

	identifier := parsed.Identifier()
	records := make([]models.TradeRecord, 0, len(entry.Partners))

	for _, partner := range entry.Partners {
		if reporting != "" && h.voc.NormalizeCountry(partner) == reporting {
			continue
		}

		seed := stableHash(partner + identifier)
		value := float64(100000 + seed%100000)
		switch parsed.Intent {
		case models.IntentImportAnalysis:
			value *= 1.2
		case models.IntentExportAnalysis:
			value *= 0.8
		}

		origin, destination := reporting, partner
		if parsed.Intent == models.IntentImportAnalysis {
			origin, destination = partner, reporting
		}

		records = append(records, models.TradeRecord{
			Country:     partner,
			CompanyName: companyName(partner, seed, parsed.Intent),
			ValueUSD:    value,
			HSNCode:     entry.HSNCode,
			Product:     entry.Name,
			Year:        year,
			Quantity:    float64(int(value/1000*100)) / 100,
			Unit:        units[seed%uint32(len(units))],
			FreightTerm: freightTerms[seed/7%uint32(len(freightTerms))],
			PackageType: packageTypes[seed/13%uint32(len(packageTypes))],
			Origin:      origin,
			Destination: destination,
			Source:      pickSource(input.Sources, seed),
		})
	}
	return records
}

// buildRecommendations produces the template-driven advice lines: top
// markets by value, the dominant freight term and packaging, and a
// general-advice fallback so the list is never empty.
func (h *Handler) buildRecommendations(parsed models.ParsedQuery, records []models.TradeRecord) []string {
	if len(records) == 0 {
		return []string{"No sufficient trade data found to generate specific recommendations."}
	}

	var recommendations []string

	byValue := make([]models.TradeRecord, len(records))
	copy(byValue, records)
	sort.SliceStable(byValue, func(i, j int) bool {
		return byValue[i].ValueUSD > byValue[j].ValueUSD
	})

	top := byValue
	if len(top) > 3 {
		top = top[:3]
	}
	parts := make([]string, 0, len(top))
	for _, r := range top {
		parts = append(parts, fmt.Sprintf("%s ($%s)", r.Country, formatUSD(r.ValueUSD)))
	}
	recommendations = append(recommendations, fmt.Sprintf(
		"Top %d %s markets by value: %s.", len(top), marketWord(parsed.Intent), strings.Join(parts, ", ")))

	if term := mode(records, func(r models.TradeRecord) string { return r.FreightTerm }); term != "" {
		recommendations = append(recommendations, fmt.Sprintf("Most frequently observed freight term: %s.", term))
	}
	if pkg := mode(records, func(r models.TradeRecord) string { return r.PackageType }); pkg != "" {
		recommendations = append(recommendations, fmt.Sprintf("Common packaging type: %s.", pkg))
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Further detailed analysis is required for specific recommendations.")
	}
	return recommendations
}

func marketWord(intent models.Intent) string {
	switch intent {
	case models.IntentImportAnalysis:
		return "importing"
	case models.IntentExportAnalysis:
		return "exporting"
	default:
		return "trading"
	}
}

// mode returns the most frequent non-empty value of a field, ties broken
// by first occurrence.
func mode(records []models.TradeRecord, field func(models.TradeRecord) string) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best := ""
	for _, v := range order {
		if best == "" || counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func stableHash(s string) uint32 {
	hasher := fnv.New32a()
	hasher.Write([]byte(s))
	return hasher.Sum32()
}

// companyName derives a stable counterparty name for the partner row:
// consignees for export analysis, shippers for import analysis.
func companyName(partner string, seed uint32, intent models.Intent) string {
	serial := 100 + seed%900
	if intent == models.IntentImportAnalysis {
		return fmt.Sprintf("%s Shipper_%d Inc.", partner, serial)
	}
	return fmt.Sprintf("%s Consignee_%d Co.", partner, serial)
}

func pickSource(sources []string, seed uint32) string {
	if len(sources) == 0 {
		return "Simulated Data Source"
	}
	return sources[seed%uint32(len(sources))]
}

// formatUSD renders a value with thousands separators and two decimals.
func formatUSD(v float64) string {
	whole := int64(v)
	frac := int64((v-float64(whole))*100 + 0.5)
	if frac == 100 {
		whole++
		frac = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(d)
	}
	return fmt.Sprintf("%s.%02d", grouped.String(), frac)
}
