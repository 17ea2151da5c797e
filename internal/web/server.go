// Package web exposes the advisor over HTTP: an advice endpoint, the
// filtered pool catalog and an SSE stream of catalog refresh events.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/unwraplabs/tyrion/internal/domain"
	"github.com/unwraplabs/tyrion/internal/events"
	"github.com/unwraplabs/tyrion/internal/services/advisor"
)

// TrendSource produces smoothed APY values from stored catalog history.
type TrendSource interface {
	ApyTrend(key domain.PoolKey, asset string, period int) (float64, error)
}

// Server exposes HTTP endpoints for advice requests and catalog reads.
type Server struct {
	Addr        string
	Advisor     *advisor.Service
	Broadcaster *events.CatalogBroadcaster
	Trends      TrendSource
	Logger      *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, svc *advisor.Service, broadcaster *events.CatalogBroadcaster, trends TrendSource, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{Addr: addr, Advisor: svc, Broadcaster: broadcaster, Trends: trends, Logger: logger}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/advise", s.handleAdvise)
	mux.HandleFunc("/pools", s.handlePools)
	mux.HandleFunc("/pools/trend", s.handlePoolTrend)
	mux.HandleFunc("/catalog/stream", s.handleCatalogStream)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.Logger.Info("starting web server", zap.String("addr", s.Addr))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via ACME.
// It also starts an HTTP server on port 80 to handle ACME HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	// HTTP server on port 80 for ACME challenges and HTTP->HTTPS redirects.
	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	// shutdown both servers when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http (acme) server shutdown error", zap.Error(err))
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("https server shutdown error", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http (acme) server error", zap.Error(err))
		}
	}()

	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type adviseRequest struct {
	Statement string            `json:"statement"`
	Address   string            `json:"address,omitempty"`
	Balances  map[string]string `json:"balances,omitempty"`
}

type adviseResponse struct {
	RequestID string                `json:"request_id"`
	Profile   string                `json:"risk_profile"`
	Plan      domain.InvestmentPlan `json:"plan"`
	Message   string                `json:"message,omitempty"`
}

func (s *Server) handleAdvise(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req adviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var balances domain.WalletBalances
	if len(req.Balances) > 0 {
		balances = make(domain.WalletBalances, len(req.Balances))
		for symbol, raw := range req.Balances {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid balance for %s: %s", symbol, raw), http.StatusBadRequest)
				return
			}
			balances[symbol] = amount
		}
	}

	advice, err := s.Advisor.Advise(r.Context(), advisor.AdviceRequest{
		Statement: req.Statement,
		Account:   req.Address,
		Balances:  balances,
	})
	if err != nil {
		s.Logger.Error("advise request failed", zap.Error(err))
		http.Error(w, "failed to compute advice", http.StatusInternalServerError)
		return
	}

	resp := adviseResponse{
		RequestID: advice.RequestID,
		Profile:   string(advice.Profile),
		Plan:      advice.Plan,
	}
	if advice.Plan.IsEmpty() {
		resp.Message = "no investment opportunities found"
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Logger.Error("encode advise response", zap.Error(err))
	}
}

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pools, err := s.Advisor.Pools(r.Context(), criteria)
	if err != nil {
		s.Logger.Error("pools request failed", zap.Error(err))
		http.Error(w, "failed to load catalog", http.StatusInternalServerError)
		return
	}
	if pools == nil {
		pools = []domain.PoolRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(pools); err != nil {
		s.Logger.Error("encode pools response", zap.Error(err))
	}
}

type trendResponse struct {
	Protocol    string  `json:"protocol"`
	PoolName    string  `json:"pool_name"`
	Asset       string  `json:"asset"`
	Period      int     `json:"period"`
	SmoothedApy float64 `json:"smoothed_apy"`
}

// handlePoolTrend serves the smoothed APY of one pool and asset over the
// stored snapshot history.
func (s *Server) handlePoolTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.Trends == nil {
		http.Error(w, "trend history not available", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	protocol := q.Get("protocol")
	pool := q.Get("pool")
	asset := q.Get("asset")
	if protocol == "" || pool == "" || asset == "" {
		http.Error(w, "protocol, pool and asset query parameters are required", http.StatusBadRequest)
		return
	}

	period := 3
	if v := q.Get("period"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, fmt.Sprintf("invalid period: %s", v), http.StatusBadRequest)
			return
		}
		period = parsed
	}

	smoothed, err := s.Trends.ApyTrend(domain.PoolKey{Protocol: protocol, PoolName: pool}, asset, period)
	if err != nil {
		s.Logger.Debug("trend request failed", zap.String("pool", pool), zap.Error(err))
		http.Error(w, "no trend available for the requested pool", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(trendResponse{
		Protocol:    protocol,
		PoolName:    pool,
		Asset:       asset,
		Period:      period,
		SmoothedApy: smoothed,
	}); err != nil {
		s.Logger.Error("encode trend response", zap.Error(err))
	}
}

func criteriaFromQuery(r *http.Request) (domain.FilterCriteria, error) {
	var criteria domain.FilterCriteria
	q := r.URL.Query()

	if v := q.Get("audited_only"); v != "" {
		audited, err := strconv.ParseBool(v)
		if err != nil {
			return criteria, fmt.Errorf("invalid audited_only: %s", v)
		}
		criteria.AuditedOnly = audited
	}
	if v := q.Get("protocols"); v != "" {
		criteria.Protocols = splitList(v)
	}
	if v := q.Get("assets"); v != "" {
		criteria.Assets = splitList(v)
	}
	if v := q.Get("risk_levels"); v != "" {
		for _, item := range splitList(v) {
			rating, ok := domain.ParseRiskRating(item)
			if !ok {
				return criteria, fmt.Errorf("invalid risk level: %s", item)
			}
			criteria.RiskLevels = append(criteria.RiskLevels, rating)
		}
	}
	if v := q.Get("min_tvl"); v != "" {
		minTvl, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid min_tvl: %s", v)
		}
		criteria.MinTvl = minTvl
	}
	if v := q.Get("min_apy"); v != "" {
		minApy, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return criteria, fmt.Errorf("invalid min_apy: %s", v)
		}
		criteria.MinApy = minApy
	}

	return criteria, nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (s *Server) handleCatalogStream(w http.ResponseWriter, r *http.Request) {
	if s.Broadcaster == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "catalog broadcaster not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.Broadcaster.Subscribe()
	defer s.Broadcaster.Unsubscribe(sub)

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case event, ok := <-sub:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				s.Logger.Error("encode catalog event", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: catalog\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok"}`)
}
