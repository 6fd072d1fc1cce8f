// internal/agents/parse-query/handler.go
package parsequery

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"trade-intel/internal/common/logger"
	"trade-intel/internal/models"
	"trade-intel/pkg/vocabulary"
)

const TaskType = "parse-query"

var (
	ErrEmptyQuery = errors.New("EMPTY_QUERY")
)

var (
	hsnPattern  = regexp.MustCompile(`(?i)\bhs(?:n)?(?:\s*code)?\s*[:#]?\s*([0-9]{2,8})\b`)
	yearPattern = regexp.MustCompile(`\b(19[0-9]{2}|20[0-9]{2})\b`)
	wordPattern = regexp.MustCompile(`[a-zA-Z]+`)
)

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "can": true, "do": true,
	"for": true, "from": true, "how": true, "in": true, "is": true, "me": true,
	"of": true, "on": true, "show": true, "the": true, "to": true, "top": true,
	"trends": true, "we": true, "what": true, "where": true, "which": true,
	"who": true, "with": true,
}

// span marks a region of the query consumed by a field match.
type span struct {
	start, end int
}

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

// Execute interprets free text into a ParsedQuery. It is total over
// non-empty input: a query with no recognizable signal comes back with
// intent=unknown and every optional field empty.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, ErrEmptyQuery
	}

	text := input.Query
	lower := strings.ToLower(text)
	var consumed []span

	parsed := models.ParsedQuery{Intent: models.IntentUnknown}

	if intent, sp, ok := h.matchIntent(lower); ok {
		parsed.Intent = intent
		consumed = append(consumed, sp)
	}

	if loc := hsnPattern.FindStringSubmatchIndex(lower); loc != nil {
		parsed.HSNCode = lower[loc[2]:loc[3]]
		consumed = append(consumed, span{loc[0], loc[1]})
	}

	if product, sp, ok := h.matchProduct(lower); ok {
		parsed.ProductName = product
		consumed = append(consumed, sp)
	}

	if country, sp, ok := h.matchCountry(lower); ok {
		parsed.Country = country
		consumed = append(consumed, sp)
	}

	if year, sp, ok := h.matchYear(lower, consumed); ok {
		parsed.Year = year
		consumed = append(consumed, sp)
	}

	parsed.Keywords = h.residualKeywords(lower, consumed)

	h.logger.Debug("query parsed", map[string]interface{}{
		"intent":  parsed.Intent,
		"product": parsed.ProductName,
		"country": parsed.Country,
		"hsnCode": parsed.HSNCode,
		"year":    parsed.Year,
	})

	return &Output{Parsed: parsed}, nil
}

// matchIntent picks the intent family whose trigger occurs first in the
// text. Conflicting import and export signals resolve to the earlier one.
func (h *Handler) matchIntent(lower string) (models.Intent, span, bool) {
	importIdx, importLen := earliestTrigger(lower, h.voc.ImportTriggers)
	exportIdx, exportLen := earliestTrigger(lower, h.voc.ExportTriggers)

	switch {
	case importIdx < 0 && exportIdx < 0:
		return models.IntentUnknown, span{}, false
	case exportIdx < 0 || (importIdx >= 0 && importIdx <= exportIdx):
		return models.IntentImportAnalysis, span{importIdx, importIdx + importLen}, true
	default:
		return models.IntentExportAnalysis, span{exportIdx, exportIdx + exportLen}, true
	}
}

func earliestTrigger(lower string, triggers []string) (idx, length int) {
	idx = -1
	for _, trigger := range triggers {
		if i := strings.Index(lower, strings.ToLower(trigger)); i >= 0 {
			if idx < 0 || i < idx {
				idx, length = i, len(trigger)
			}
		}
	}
	return idx, length
}

// matchProduct returns the canonical name of the first known product or
// alias appearing in the text.
func (h *Handler) matchProduct(lower string) (string, span, bool) {
	bestIdx := -1
	var bestName string
	var bestLen int

	for _, p := range h.voc.Products {
		candidates := append([]string{p.Name}, p.Aliases...)
		for _, cand := range candidates {
			if idx, ok := wholeWordIndex(lower, cand); ok {
				if bestIdx < 0 || idx < bestIdx {
					bestIdx, bestName, bestLen = idx, p.Name, len(cand)
				}
			}
		}
	}

	if bestIdx < 0 {
		return "", span{}, false
	}
	return bestName, span{bestIdx, bestIdx + bestLen}, true
}

func (h *Handler) matchCountry(lower string) (string, span, bool) {
	bestIdx := -1
	var bestName string
	var bestLen int

	for _, c := range h.voc.Countries {
		candidates := append([]string{c.Name}, c.Aliases...)
		for _, cand := range candidates {
			if idx, ok := wholeWordIndex(lower, cand); ok {
				if bestIdx < 0 || idx < bestIdx {
					bestIdx, bestName, bestLen = idx, c.Name, len(cand)
				}
			}
		}
	}

	if bestIdx < 0 {
		return "", span{}, false
	}
	return bestName, span{bestIdx, bestIdx + bestLen}, true
}

// matchYear finds the first 4-digit year not already consumed by the HSN
// match, so "HSN 2024" is a code, not a year.
func (h *Handler) matchYear(lower string, consumed []span) (int, span, bool) {
	for _, loc := range yearPattern.FindAllStringIndex(lower, -1) {
		sp := span{loc[0], loc[1]}
		if overlapsAny(sp, consumed) {
			continue
		}
		year, err := strconv.Atoi(lower[loc[0]:loc[1]])
		if err != nil {
			continue
		}
		return year, sp, true
	}
	return 0, span{}, false
}

// residualKeywords keeps the alphabetic tokens no field consumed, minus
// stopwords, as extra search context.
func (h *Handler) residualKeywords(lower string, consumed []span) []string {
	var keywords []string
	seen := make(map[string]bool)

	for _, loc := range wordPattern.FindAllStringIndex(lower, -1) {
		sp := span{loc[0], loc[1]}
		if overlapsAny(sp, consumed) {
			continue
		}
		word := lower[loc[0]:loc[1]]
		if stopwords[word] || seen[word] || len(word) < 3 {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 5 {
			break
		}
	}
	return keywords
}

// wholeWordIndex finds a candidate phrase bounded by non-letters.
func wholeWordIndex(lower, candidate string) (int, bool) {
	cand := strings.ToLower(candidate)
	from := 0
	for {
		idx := strings.Index(lower[from:], cand)
		if idx < 0 {
			return 0, false
		}
		idx += from
		end := idx + len(cand)
		startOK := idx == 0 || !isLetter(lower[idx-1])
		endOK := end == len(lower) || !isLetter(lower[end])
		if startOK && endOK {
			return idx, true
		}
		from = idx + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func overlapsAny(sp span, spans []span) bool {
	for _, other := range spans {
		if sp.start < other.end && other.start < sp.end {
			return true
		}
	}
	return false
}
