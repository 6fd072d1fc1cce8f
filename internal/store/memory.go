// internal/store/memory.go
package store

import (
	"context"
	"strings"

	"trade-intel/pkg/vocabulary"
)

// MemoryCatalog serves catalog lookups from the vocabulary tables. It is
// the backend used when no database is configured, and the fixture
// backend in tests.
type MemoryCatalog struct {
	voc *vocabulary.Vocabulary
}

func NewMemoryCatalog(voc *vocabulary.Vocabulary) *MemoryCatalog {
	return &MemoryCatalog{voc: voc}
}

func (m *MemoryCatalog) ProductByName(_ context.Context, name string) (ProductEntry, bool, error) {
	p, ok := m.voc.ProductByName(name)
	if !ok {
		return ProductEntry{}, false, nil
	}
	return m.toEntry(p), true, nil
}

func (m *MemoryCatalog) ProductByHSN(_ context.Context, code string) (ProductEntry, bool, error) {
	p, ok := m.voc.ProductByHSN(code)
	if !ok {
		return ProductEntry{}, false, nil
	}
	return m.toEntry(p), true, nil
}

// PartnersForRegion returns the countries of every other region, since a
// region trades with the rest of the world. Countries inside the queried
// region are excluded by the assembler's reporting-country rule anyway.
func (m *MemoryCatalog) PartnersForRegion(_ context.Context, region string) ([]string, error) {
	var partners []string
	for _, c := range m.voc.Countries {
		if region != "" && strings.EqualFold(c.Region, region) {
			continue
		}
		if c.Name == "European Union" {
			continue
		}
		partners = append(partners, c.Name)
	}
	return partners, nil
}

func (m *MemoryCatalog) toEntry(p vocabulary.Product) ProductEntry {
	partners := p.Partners
	if len(partners) == 0 {
		partners = DefaultPartners
	}
	return ProductEntry{
		Name:     p.Name,
		HSNCode:  p.HSNCode,
		Partners: partners,
	}
}
