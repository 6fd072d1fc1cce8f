// internal/server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	assembleresult "trade-intel/internal/agents/assemble-result"
	parsequery "trade-intel/internal/agents/parse-query"
	selectstrategy "trade-intel/internal/agents/select-strategy"
	commonerrors "trade-intel/internal/common/errors"
	"trade-intel/internal/common/metrics"
	"trade-intel/internal/common/validation"
)

const maxRequestBody = 64 << 10

type analyzeRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleAnalyzeTrade(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RequestDuration.WithLabelValues("analyze").Observe(time.Since(start).Seconds())
	}()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, r, commonerrors.NewInvalidQueryError("unreadable request body"))
		return
	}

	if result, verr := validation.ValidateJSON(validation.AnalyzeRequestSchema, body); verr != nil || !result.Valid {
		details := "request body does not match schema"
		if verr == nil && len(result.Errors) > 0 {
			details = fmt.Sprintf("%s: %s", result.Errors[0].Field, result.Errors[0].Message)
		}
		s.writeError(w, r, commonerrors.NewInvalidQueryError(details))
		return
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, commonerrors.NewInvalidQueryError(err.Error()))
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.writeError(w, r, commonerrors.NewInvalidQueryError("query must not be empty"))
		return
	}

	ctx := r.Context()

	if s.cache != nil {
		cached, found, cerr := s.cache.Get(ctx, req.Query)
		if cerr != nil {
			s.logger.Warn("cache lookup failed", map[string]interface{}{
				"requestId": requestIDFrom(ctx),
				"error":     cerr.Error(),
			})
		}
		if found {
			metrics.CacheHits.WithLabelValues("hit").Inc()
			s.writeJSON(w, http.StatusOK, cached)
			return
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
	}

	parseOut, err := s.parser.Execute(ctx, &parsequery.Input{Query: req.Query})
	if err != nil {
		if errors.Is(err, parsequery.ErrEmptyQuery) {
			s.writeError(w, r, commonerrors.NewInvalidQueryError("query must not be empty"))
			return
		}
		s.writeError(w, r, commonerrors.AsStandard(err))
		return
	}

	if !parseOut.Parsed.Intent.Known() {
		s.writeError(w, r, commonerrors.NewIntentUnknownError(req.Query))
		return
	}

	selectOut, err := s.selector.Execute(ctx, &selectstrategy.Input{Parsed: parseOut.Parsed})
	if err != nil {
		s.writeError(w, r, commonerrors.AsStandard(err))
		return
	}

	assembleOut, err := s.assembler.Execute(ctx, &assembleresult.Input{
		Query:         req.Query,
		Parsed:        parseOut.Parsed,
		Strategy:      selectOut.Strategy,
		SearchQueries: selectOut.SearchQueries,
		Sources:       selectOut.Sources,
	})
	if err != nil {
		s.writeError(w, r, commonerrors.AsStandard(err))
		return
	}

	result := assembleOut.Result

	metrics.AnalyzeRequestsTotal.WithLabelValues(string(result.Strategy)).Inc()
	metrics.ExportsWritten.Inc()
	if s.obs != nil {
		s.obs.RecordRequestProcessed(ctx, "success")
		s.obs.RecordRequestDuration(ctx, time.Since(start), "success")
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, req.Query, &result); cerr != nil {
			s.logger.Warn("cache store failed", map[string]interface{}{
				"requestId": requestIDFrom(ctx),
				"error":     cerr.Error(),
			})
		}
	}

	if s.notifier != nil {
		if _, nerr := s.notifier.ReportReady(ctx, &result); nerr != nil {
			s.logger.Warn("report notification failed", map[string]interface{}{
				"requestId": requestIDFrom(ctx),
				"error":     nerr.Error(),
			})
		}
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := s.writer.Path(filename)
	if err != nil {
		s.writeError(w, r, commonerrors.AsStandard(err))
		return
	}

	metrics.DownloadsServed.Inc()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	http.ServeFile(w, r, path)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
		"message": "Trade intelligence service. POST /analyze-trade with {\"query\": \"...\"}.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("response encode failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, stdErr *commonerrors.StandardError) {
	status := stdErr.HTTPStatus()
	operation := "analyze"
	if strings.HasPrefix(r.URL.Path, "/download/") {
		operation = "download"
	}
	metrics.RequestFailures.WithLabelValues(operation, string(stdErr.Code)).Inc()

	logFields := map[string]interface{}{
		"requestId": requestIDFrom(r.Context()),
		"path":      r.URL.Path,
		"code":      stdErr.Code,
		"details":   stdErr.Details,
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", logFields)
		if s.obs != nil {
			s.obs.RecordRequestProcessed(r.Context(), "error")
		}
	} else {
		s.logger.Warn("request rejected", logFields)
	}

	s.writeJSON(w, status, stdErr.ToResponse())
}
