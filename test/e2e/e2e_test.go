// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assembleresult "trade-intel/internal/agents/assemble-result"
	parsequery "trade-intel/internal/agents/parse-query"
	selectstrategy "trade-intel/internal/agents/select-strategy"
	"trade-intel/internal/common/config"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/export"
	"trade-intel/internal/models"
	"trade-intel/internal/server"
	"trade-intel/internal/store"
	"trade-intel/pkg/vocabulary"
)

// startService wires the full pipeline the way cmd/server does, with the
// in-memory catalog and a miniredis-backed cache, and serves it over
// httptest.
func startService(t *testing.T) *httptest.Server {
	t.Helper()

	voc := vocabulary.Default()
	log := logger.NewTestLogger(t)

	writer, err := export.NewWriter(t.TempDir(), log)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	var cfg config.Config
	cfg.App.Name = "trade-intel"
	cfg.App.Version = "e2e"

	catalog := store.NewMemoryCatalog(voc)
	srv := server.New(server.Options{
		Config:    cfg,
		Logger:    log,
		Parser:    parsequery.NewHandler(parsequery.LoadConfig(), voc, log),
		Selector:  selectstrategy.NewHandler(selectstrategy.LoadConfig(), voc, log),
		Assembler: assembleresult.NewHandler(assembleresult.LoadConfig(), catalog, writer, voc, log),
		Writer:    writer,
		Cache:     store.NewResultCache(redisClient, time.Minute, log),
	})

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func analyze(t *testing.T, ts *httptest.Server, query string) (*http.Response, []byte) {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/analyze-trade", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, payload
}

func TestAnalyzeAndDownloadFlow(t *testing.T) {
	ts := startService(t)

	resp, payload := analyze(t, ts, "Show me the top 10 exporters of tea from India in 2024")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(payload, &result))

	assert.Equal(t, models.IntentExportAnalysis, result.ParsedQuery.Intent)
	assert.Equal(t, "tea", result.ParsedQuery.ProductName)
	assert.Equal(t, "India", result.ParsedQuery.Country)
	assert.Equal(t, 2024, result.ParsedQuery.Year)
	assert.Equal(t, models.StrategyByProduct, result.Strategy)
	assert.NotEmpty(t, result.TradeData)
	assert.NotEmpty(t, result.Recommendations)
	require.Equal(t, "/download/trade_data_tea_export_analysis.xlsx", result.DownloadLink)

	for _, record := range result.TradeData {
		assert.NotEqual(t, "India", record.Country)
		assert.NotZero(t, record.ValueUSD)
	}

	dl, err := http.Get(ts.URL + result.DownloadLink)
	require.NoError(t, err)
	defer dl.Body.Close()

	require.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		dl.Header.Get("Content-Type"))

	artifact, err := io.ReadAll(dl.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, artifact)
}

func TestRepeatedQueryIsStable(t *testing.T) {
	ts := startService(t)

	_, first := analyze(t, ts, "coffee imports to Germany")
	_, second := analyze(t, ts, "coffee imports to Germany")

	assert.JSONEq(t, string(first), string(second))
}

func TestRejectedQueries(t *testing.T) {
	ts := startService(t)

	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{name: "empty query", query: "", expected: http.StatusBadRequest},
		{name: "no intent signal", query: "hello there", expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := analyze(t, ts, tt.query)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}

func TestUnknownDownloadIs404(t *testing.T) {
	ts := startService(t)

	resp, err := http.Get(ts.URL + "/download/trade_data_never_made.xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
