// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assembleresult "trade-intel/internal/agents/assemble-result"
	parsequery "trade-intel/internal/agents/parse-query"
	selectstrategy "trade-intel/internal/agents/select-strategy"
	"trade-intel/internal/common/config"
	"trade-intel/internal/common/logger"
	"trade-intel/internal/common/observability"
	"trade-intel/internal/export"
	"trade-intel/internal/notify"
	"trade-intel/internal/store"
)

// Server wires the agent pipeline behind the HTTP surface.
type Server struct {
	cfg    config.Config
	logger logger.Logger

	parser    *parsequery.Handler
	selector  *selectstrategy.Handler
	assembler *assembleresult.Handler
	writer    *export.Writer

	// Optional collaborators, nil when not configured.
	cache    *store.ResultCache
	notifier *notify.Notifier
	obs      *observability.Observability

	httpServer *http.Server
}

type Options struct {
	Config    config.Config
	Logger    logger.Logger
	Parser    *parsequery.Handler
	Selector  *selectstrategy.Handler
	Assembler *assembleresult.Handler
	Writer    *export.Writer
	Cache     *store.ResultCache
	Notifier  *notify.Notifier
	Obs       *observability.Observability
}

func New(opts Options) *Server {
	s := &Server{
		cfg:       opts.Config,
		logger:    opts.Logger.WithFields(map[string]interface{}{"component": "http-server"}),
		parser:    opts.Parser,
		selector:  opts.Selector,
		assembler: opts.Assembler,
		writer:    opts.Writer,
		cache:     opts.Cache,
		notifier:  opts.Notifier,
		obs:       opts.Obs,
	}

	s.httpServer = &http.Server{
		Addr:         opts.Config.Server.Addr(),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(opts.Config.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(opts.Config.Server.WriteTimeout) * time.Millisecond,
	}

	return s
}

// Routes builds the router; exposed separately so tests can mount it on
// httptest servers.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/analyze-trade", s.handleAnalyzeTrade)
	r.Get("/download/{filename}", s.handleDownload)

	return r
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
