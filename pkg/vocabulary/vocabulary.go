// pkg/vocabulary/vocabulary.go
package vocabulary

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load reads a vocabulary file from disk.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var voc Vocabulary
	if err := json.Unmarshal(data, &voc); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	if len(voc.Products) == 0 && len(voc.Countries) == 0 {
		return nil, fmt.Errorf("vocabulary %s has no entries", path)
	}
	return &voc, nil
}

// Default returns the built-in vocabulary used when no file is configured.
func Default() *Vocabulary {
	return &Vocabulary{
		Version: "builtin",
		Products: []Product{
			{Name: "tea", HSNCode: "0902"},
			{Name: "coffee", HSNCode: "0901"},
			{Name: "rice", HSNCode: "1006"},
			{Name: "wheat", HSNCode: "1001"},
			{Name: "sugar", HSNCode: "1701"},
			{Name: "cotton", HSNCode: "5201"},
			{Name: "spices", HSNCode: "0910"},
			{Name: "gas compressors", HSNCode: "8414", Aliases: []string{"compressors"}},
			{Name: "pharmaceuticals", HSNCode: "3004", Aliases: []string{"medicines", "drugs"}},
			{Name: "steel", HSNCode: "7208"},
			{Name: "textiles", HSNCode: "5208"},
			{Name: "leather", HSNCode: "4107"},
			{Name: "electronics", HSNCode: "8517"},
			{Name: "machinery", HSNCode: "8419"},
		},
		Countries: []Country{
			{Name: "India", Region: "Asia"},
			{Name: "United States", Region: "Americas", Aliases: []string{"usa", "america", "united states of america"}},
			{Name: "United Kingdom", Region: "Europe", Aliases: []string{"uk", "britain", "great britain"}},
			{Name: "European Union", Region: "Europe", Aliases: []string{"eu"}},
			{Name: "Germany", Region: "Europe"},
			{Name: "France", Region: "Europe"},
			{Name: "China", Region: "Asia"},
			{Name: "Japan", Region: "Asia"},
			{Name: "Brazil", Region: "Americas"},
			{Name: "Canada", Region: "Americas"},
			{Name: "Mexico", Region: "Americas"},
			{Name: "Vietnam", Region: "Asia"},
			{Name: "Kenya", Region: "Africa"},
			{Name: "Sri Lanka", Region: "Asia"},
		},
		ImportTriggers: []string{"import", "imports", "importing", "importers", "buy from", "sourcing"},
		ExportTriggers: []string{"export", "exports", "exporting", "exporters", "sell to", "shipping to"},
	}
}

// NormalizeCountry maps an informal country mention to its canonical name.
// Unrecognized names are returned trimmed but otherwise unchanged.
func (v *Vocabulary) NormalizeCountry(name string) string {
	trimmed := strings.TrimSpace(name)
	lower := strings.ToLower(trimmed)
	for _, c := range v.Countries {
		if strings.ToLower(c.Name) == lower {
			return c.Name
		}
		for _, alias := range c.Aliases {
			if strings.ToLower(alias) == lower {
				return c.Name
			}
		}
	}
	return trimmed
}

// RegionOf returns the region of a canonical country name, or "" when unknown.
func (v *Vocabulary) RegionOf(country string) string {
	lower := strings.ToLower(country)
	for _, c := range v.Countries {
		if strings.ToLower(c.Name) == lower {
			return c.Region
		}
	}
	return ""
}

// ProductByName finds a product by name or alias, case-insensitive.
func (v *Vocabulary) ProductByName(name string) (Product, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, p := range v.Products {
		if strings.ToLower(p.Name) == lower {
			return p, true
		}
		for _, alias := range p.Aliases {
			if strings.ToLower(alias) == lower {
				return p, true
			}
		}
	}
	return Product{}, false
}

// ProductByHSN finds a product by its HSN code.
func (v *Vocabulary) ProductByHSN(code string) (Product, bool) {
	for _, p := range v.Products {
		if p.HSNCode == code {
			return p, true
		}
	}
	return Product{}, false
}
