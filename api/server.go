// Package api provides the HTTP JSON API for FinPulse.
//
// It exposes the persisted news and social sentiment stores, the macro
// trends cache, live quotes, user timelines, and manual ingest triggers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/finpulse/finpulse/internal/config"
	"github.com/finpulse/finpulse/internal/macro"
	"github.com/finpulse/finpulse/internal/news"
	"github.com/finpulse/finpulse/internal/social"
	"github.com/finpulse/finpulse/pkg/models"
	"github.com/finpulse/finpulse/pkg/utils"
)

// QuoteSource serves live quotes for the quote endpoint.
type QuoteSource interface {
	Enabled() bool
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	log    *zap.Logger

	newsEngine  *news.Engine
	socialStore *social.Store
	socialIn    *social.Ingestor
	timelines   *social.TimelineService
	macroCache  *macro.Cache
	quotes      QuoteSource
}

// Deps carries the wired core services the server exposes.
type Deps struct {
	NewsEngine  *news.Engine
	SocialStore *social.Store
	SocialIn    *social.Ingestor
	Timelines   *social.TimelineService
	MacroCache  *macro.Cache
	Quotes      QuoteSource
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, deps Deps, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		cfg:         cfg,
		log:         log,
		newsEngine:  deps.NewsEngine,
		socialStore: deps.SocialStore,
		socialIn:    deps.SocialIn,
		timelines:   deps.Timelines,
		macroCache:  deps.MacroCache,
		quotes:      deps.Quotes,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown on SIGINT
// or SIGTERM.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errc := make(chan error, 1)
	go func() {
		s.log.Info("api server listening", zap.String("addr", addr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return err
	case <-done:
	}
	s.log.Info("shutting down api server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Get("/news", s.handleNewsList)
		r.Get("/news/top-tags", s.handleNewsTopTags)
		r.Get("/news/{id}", s.handleNewsDetail)

		r.Get("/social", s.handleSocialSnapshot)
		r.Get("/social/timeline/{user}", s.handleSocialTimeline)
		r.Get("/social/{symbol}", s.handleSocialSymbol)

		r.Get("/macro/trends", s.handleMacroTrends)
		r.Get("/quote/{symbol}", s.handleQuote)

		r.Post("/ingest/news", s.handleIngestNews)
		r.Post("/ingest/social", s.handleIngestSocial)
	})

	return r
}

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status": "ok",
			"time":   utils.NowRFC3339(),
		},
	})
}

// handleNewsList lists articles with optional filters:
// /api/news?category=Oil&tag=OPEC&q=crude
func (s *Server) handleNewsList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	q := r.URL.Query().Get("q")
	if tag := r.URL.Query().Get("tag"); tag != "" {
		// Tag filter rides the query channel as an exact-match term.
		q = "#" + tag
	}

	items := s.newsEngine.Store().Query(category, q)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: items})
}

func (s *Server) handleNewsTopTags(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 12)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.newsEngine.Store().TopTags(limit),
	})
}

func (s *Server) handleNewsDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, ok := s.newsEngine.Store().GetByID(id)
	if !ok {
		writeError(w, http.StatusNotFound, "article not found")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: item})
}

func (s *Server) handleSocialSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.socialStore.Load(),
	})
}

func (s *Server) handleSocialSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := utils.NormalizeSymbol(chi.URLParam(r, "symbol"))
	snap := s.socialStore.Load()
	report, ok := snap.Symbols[symbol]
	if !ok {
		writeError(w, http.StatusNotFound, "symbol not tracked")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: report})
}

func (s *Server) handleSocialTimeline(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	limit := intQuery(r, "limit", 5)
	if limit > 50 {
		limit = 50
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	result := s.timelines.Resolve(ctx, user, limit)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

func (s *Server) handleMacroTrends(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "1"

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	trends := s.macroCache.Get(ctx, force)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: trends})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	symbol := utils.NormalizeSymbol(chi.URLParam(r, "symbol"))
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if s.quotes == nil || !s.quotes.Enabled() {
		writeError(w, http.StatusNotImplemented, "quote provider not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	quote, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if quote == nil {
		writeError(w, http.StatusNotFound, "no quote data for symbol")
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: quote})
}

func (s *Server) handleIngestNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	count := s.newsEngine.Ingest(ctx)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]int{"articles": count},
	})
}

func (s *Server) handleIngestSocial(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	snap, err := s.socialIn.Ingest(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"symbols":      len(snap.Symbols),
			"generated_at": snap.GeneratedAt,
		},
	})
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
