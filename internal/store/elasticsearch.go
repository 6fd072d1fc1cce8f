// internal/store/elasticsearch.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"

	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/logger"
)

// ElasticsearchCatalog resolves catalog lookups against a product index.
// Each document carries {name, hsnCode, partners, region}.
type ElasticsearchCatalog struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticsearchCatalog(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchCatalog {
	return &ElasticsearchCatalog{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"catalog": "elasticsearch"}),
	}
}

func (e *ElasticsearchCatalog) ProductByName(ctx context.Context, name string) (ProductEntry, bool, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"name": map[string]interface{}{
					"query": name,
				},
			},
		},
		"size": 1,
	}
	return e.searchOne(ctx, query)
}

func (e *ElasticsearchCatalog) ProductByHSN(ctx context.Context, code string) (ProductEntry, bool, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"hsnCode": code,
			},
		},
		"size": 1,
	}
	return e.searchOne(ctx, query)
}

func (e *ElasticsearchCatalog) PartnersForRegion(ctx context.Context, region string) ([]string, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"region": strings.ToLower(region),
			},
		},
		"size": 50,
	}

	hits, err := e.search(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var partners []string
	for _, hit := range hits {
		for _, partner := range hit.Partners {
			if !seen[partner] {
				seen[partner] = true
				partners = append(partners, partner)
			}
		}
	}
	return partners, nil
}

func (e *ElasticsearchCatalog) searchOne(ctx context.Context, query map[string]interface{}) (ProductEntry, bool, error) {
	hits, err := e.search(ctx, query)
	if err != nil {
		return ProductEntry{}, false, err
	}
	if len(hits) == 0 {
		return ProductEntry{}, false, nil
	}

	entry := hits[0]
	if len(entry.Partners) == 0 {
		entry.Partners = DefaultPartners
	}
	return entry, true, nil
}

func (e *ElasticsearchCatalog) search(ctx context.Context, query map[string]interface{}) ([]ProductEntry, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError("elasticsearch", err)
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError("elasticsearch", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, commonerrors.NewCatalogQueryFailedError("elasticsearch", fmt.Errorf("search status %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source ProductEntry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, commonerrors.NewCatalogQueryFailedError("elasticsearch", err)
	}

	entries := make([]ProductEntry, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		entries = append(entries, hit.Source)
	}
	return entries, nil
}
