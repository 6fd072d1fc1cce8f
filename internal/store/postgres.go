// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
)

// PostgresCatalog resolves catalog lookups from a relational product
// table. Schema:
//
//	products(name text primary key, hsn_code text, partners text[])
//	region_partners(region text, partner text)
type PostgresCatalog struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresCatalog(db *sql.DB, log logger.Logger) *PostgresCatalog {
	return &PostgresCatalog{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"catalog": "postgres"}),
	}
}

func (p *PostgresCatalog) ProductByName(ctx context.Context, name string) (ProductEntry, bool, error) {
	const q = `SELECT name, hsn_code, partners FROM products WHERE lower(name) = lower($1)`
	return p.scanProduct(ctx, q, name)
}

func (p *PostgresCatalog) ProductByHSN(ctx context.Context, code string) (ProductEntry, bool, error) {
	const q = `SELECT name, hsn_code, partners FROM products WHERE hsn_code = $1`
	return p.scanProduct(ctx, q, code)
}

func (p *PostgresCatalog) PartnersForRegion(ctx context.Context, region string) ([]string, error) {
	const q = `SELECT partner FROM region_partners WHERE lower(region) = lower($1) ORDER BY partner`

	rows, err := p.db.QueryContext(ctx, q, region)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError("postgres", err)
	}
	defer rows.Close()

	var partners []string
	for rows.Next() {
		var partner string
		if err := rows.Scan(&partner); err != nil {
			return nil, commonerrors.NewCatalogQueryFailedError("postgres", err)
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError("postgres", err)
	}
	return partners, nil
}

func (p *PostgresCatalog) scanProduct(ctx context.Context, query, arg string) (ProductEntry, bool, error) {
	var entry ProductEntry
	var partners pq.StringArray

	err := p.db.QueryRowContext(ctx, query, arg).Scan(&entry.Name, &entry.HSNCode, &partners)
	if err == sql.ErrNoRows {
		return ProductEntry{}, false, nil
	}
	if err != nil {
		return ProductEntry{}, false, commonerrors.NewCatalogQueryFailedError("postgres", err)
	}

	entry.Partners = []string(partners)
	if len(entry.Partners) == 0 {
		entry.Partners = DefaultPartners
	}
	return entry, true, nil
}
