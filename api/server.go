// Package api provides the HTTP surface of PriceTalk.
//
// It exposes price queries, series for charting, dataset vocabulary
// lookups, commodity news, a Rasa-compatible chat webhook, and a
// WebSocket chat channel.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pricetalk/pricetalk/internal/config"
	"github.com/pricetalk/pricetalk/internal/dialogue"
	"github.com/pricetalk/pricetalk/internal/logger"
	"github.com/pricetalk/pricetalk/internal/news"
	"github.com/pricetalk/pricetalk/internal/store"
	"github.com/pricetalk/pricetalk/internal/translate"
	"github.com/pricetalk/pricetalk/pkg/models"
)

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	cfg        *config.Config
	holder     *store.Holder
	dialog     *dialogue.Handler
	news       *news.Fetcher
	translator *translate.Cache
	wsHub      *WSHub
	version    string
}

// NewServer creates a configured API server with all routes and
// middleware.
func NewServer(cfg *config.Config, holder *store.Holder, version string) *Server {
	srv := &Server{
		cfg:     cfg,
		holder:  holder,
		dialog:  dialogue.NewHandler(holder, cfg.Resolver.DefaultLookbackDays),
		news:    news.NewFetcher(cfg.News.Feeds, time.Duration(cfg.News.CacheTTLSec)*time.Second),
		wsHub:   NewWSHub(),
		version: version,
	}
	srv.router = srv.buildRouter()
	return srv
}

// SetTranslator enables response translation. Must be called before
// ListenAndServe.
func (s *Server) SetTranslator(t *translate.Cache) {
	s.translator = t
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log := logger.WithComponent("api")
	go func() {
		log.WithField("addr", addr).Info("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	<-done
	log.Info("shutting down server")

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
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Post("/query", s.handleQuery)
		r.Post("/series", s.handleSeries)

		r.Get("/countries", s.handleCountries)
		r.Get("/commodities/{country}", s.handleCommodities)

		r.Get("/news", s.handleNews)

		r.Get("/ws", s.handleWebSocket)
	})

	// Rasa-REST-compatible chat endpoint for existing chat frontends.
	r.Post("/webhooks/rest/webhook", s.handleWebhook)

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// QueryRequest is the body for POST /api/v1/query and /api/v1/series:
// the slot set extracted from a user turn.
type QueryRequest struct {
	models.Slots
}

// WebhookRequest is the Rasa REST channel request shape.
type WebhookRequest struct {
	Sender   string          `json:"sender"`
	Message  string          `json:"message"`
	Metadata WebhookMetadata `json:"metadata"`
}

// WebhookMetadata carries the structured slot set and intent the
// upstream NLU extracted from the message.
type WebhookMetadata struct {
	Intent string       `json:"intent,omitempty"`
	Slots  models.Slots `json:"slots"`
}

// WebhookMessage is one bot message in the Rasa REST channel response.
type WebhookMessage struct {
	RecipientID string             `json:"recipient_id"`
	Text        string             `json:"text,omitempty"`
	Custom      *dialogue.Response `json:"custom,omitempty"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.holder.Get()
	rows := 0
	for _, c := range snap.Countries() {
		rows += len(snap.Rows(c))
	}
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":    "ok",
			"version":   s.version,
			"countries": len(snap.Countries()),
			"rows":      rows,
			"loaded_at": snap.LoadedAt().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := s.dialog.Table(req.Slots)
	s.translateResponse(r.Context(), &resp)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := s.dialog.Chart(req.Slots)
	s.translateResponse(r.Context(), &resp)
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: resp})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    s.holder.Get().Countries(),
	})
}

func (s *Server) handleCommodities(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	commodities := s.holder.Get().Commodities(country)
	if commodities == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown country: %s", country))
		return
	}
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: commodities})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var (
		articles []models.NewsArticle
		err      error
	)
	if commodity := r.URL.Query().Get("commodity"); commodity != "" {
		articles, err = s.news.CommodityHeadlines(ctx, commodity, limit)
	} else {
		articles, err = s.news.Headlines(ctx, limit)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: articles})
}

// handleWebhook serves the Rasa REST channel contract: a sender id, the
// raw message, and NLU metadata in; a list of bot messages out. The
// structured slots ride in the metadata because intent and entity
// extraction happen upstream.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Sender == "" {
		req.Sender = newSessionID()
	}

	resp := s.dispatchIntent(req)
	s.translateResponse(r.Context(), &resp)

	msg := WebhookMessage{RecipientID: req.Sender, Text: resp.Text}
	if resp.Table != nil || len(resp.Series) > 0 {
		msg.Custom = &resp
	}
	writeJSON(w, http.StatusOK, []WebhookMessage{msg})
}

// dispatchIntent routes a chat turn by the intent the NLU recognized.
func (s *Server) dispatchIntent(req WebhookRequest) dialogue.Response {
	switch req.Metadata.Intent {
	case "query_chart", "chart":
		return s.dialog.Chart(req.Metadata.Slots)
	case "query_table", "query", "":
		return s.dialog.Table(req.Metadata.Slots)
	case "repeat":
		entities := make(map[string]string)
		for _, c := range req.Metadata.Slots.Countries {
			entities["country"] = c
		}
		for _, c := range req.Metadata.Slots.Commodities {
			entities["commodity"] = c
		}
		return dialogue.Response{Text: dialogue.RepeatIntent(req.Metadata.Intent, entities)}
	default:
		return dialogue.Response{Text: dialogue.FallbackText}
	}
}

// translateResponse rewrites user-facing text when translation is on.
func (s *Server) translateResponse(ctx context.Context, resp *dialogue.Response) {
	if s.translator == nil || !s.cfg.Translation.Enabled {
		return
	}
	resp.Text = s.translator.Translate(ctx, resp.Text, s.cfg.Translation.TargetLanguage)
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithComponent("api").WithError(err).Warn("failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
