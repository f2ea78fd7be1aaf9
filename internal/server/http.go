package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xtding233/ability-miner/internal/bridge"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

type errResp struct {
	Err string `json:"err"`
}

// Handler routes the HTTP API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /roll", s.handleRoll)
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps a search error to an HTTP status.
func statusOf(err error) int {
	switch {
	case bridge.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		code := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, code, errResp{Err: err.Error()})
		return
	}
	req, err := bridge.DecodeRequest(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: err.Error()})
		return
	}

	start := time.Now()
	seeds, err := s.Runner().Run(r.Context(), req)
	if err != nil {
		code := statusOf(err)
		if code >= http.StatusInternalServerError {
			s.log.Warn("search failed", zap.Error(err))
		}
		writeJSON(w, code, errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bridge.NewResponse(req.Brand, seeds, time.Since(start).Milliseconds()))
}

type rollResp struct {
	Seed  uint32            `json:"seed"`
	Brand string            `json:"brand"`
	Drink string            `json:"drink"`
	Rolls []bridge.RollStep `json:"rolls"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := bridge.ParseRollRequest(q.Get("seed"), q.Get("brand"), q.Get("drink"), q.Get("times"), q.Get("legacy") == "true")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rollResp{
		Seed:  req.Seed,
		Brand: req.Brand.String(),
		Drink: req.Drink.String(),
		Rolls: bridge.Rolls(req),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, bridge.Catalog())
}
