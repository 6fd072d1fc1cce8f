// internal/store/catalog.go
package store

import "context"

// ProductEntry is one catalog row: a traded good, its HSN classification,
// and the partner countries it is commonly traded with.
type ProductEntry struct {
	Name     string   `json:"name"`
	HSNCode  string   `json:"hsnCode"`
	Partners []string `json:"partners"`
}

// Catalog resolves products and partner-country lists for the result
// assembler. Implementations must be safe for concurrent use.
type Catalog interface {
	// ProductByName returns the entry for a product name, with found=false
	// when the catalog has no such product.
	ProductByName(ctx context.Context, name string) (ProductEntry, bool, error)

	// ProductByHSN returns the entry for an HSN code.
	ProductByHSN(ctx context.Context, code string) (ProductEntry, bool, error)

	// PartnersForRegion returns partner countries for a region, used by the
	// by_country_region strategy. An empty slice means no regional data.
	PartnersForRegion(ctx context.Context, region string) ([]string, error)
}

// DefaultPartners is the fallback partner-country list used when the
// catalog has no entry for the requested product, HSN code, or region.
var DefaultPartners = []string{
	"United States", "Germany", "China", "Japan", "Brazil",
	"Canada", "Mexico", "France", "United Kingdom",
}
