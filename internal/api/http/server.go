package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"moviecatalog/catalogservice/internal/domain"
	"moviecatalog/catalogservice/internal/search"
)

type CatalogService interface {
	SearchTitle(ctx context.Context, query string) ([]domain.MovieRecord, error)
	SearchActor(ctx context.Context, actor string) ([]domain.MovieRecord, error)
	LookupTitle(ctx context.Context, title string) (domain.MovieRecord, error)
	Save(ctx context.Context, record domain.MovieRecord) error
	Get(ctx context.Context, id string) (domain.MovieRecord, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.MovieRecord, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type ActivitySource interface {
	State() search.ActivityState
}

type Server struct {
	catalog     CatalogService
	activity    ActivitySource
	events      *EventHub
	logger      *slog.Logger
	rateLimit   float64
	rateBurst   int
	corsOrigins []string
}

type searchResponse struct {
	Query     string               `json:"query"`
	Items     []domain.MovieRecord `json:"items"`
	Count     int                  `json:"count"`
	ElapsedMS int64                `json:"elapsedMs"`
}

type listResponse struct {
	Items []domain.MovieRecord `json:"items"`
	Count int                  `json:"count"`
}

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithActivity(activity ActivitySource) ServerOption {
	return func(s *Server) {
		s.activity = activity
	}
}

func WithEventHub(hub *EventHub) ServerOption {
	return func(s *Server) {
		s.events = hub
	}
}

func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.rateLimit = rps
			s.rateBurst = burst
		}
	}
}

func WithCORSOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.corsOrigins = append([]string(nil), origins...)
	}
}

func NewServer(catalogService CatalogService, options ...ServerOption) *Server {
	server := &Server{
		catalog:   catalogService,
		logger:    slog.Default(),
		rateLimit: 50,
		rateBurst: 100,
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/movies/search", s.handleSearchTitle)
	mux.HandleFunc("/movies/search/actor", s.handleSearchActor)
	mux.HandleFunc("/movies/lookup", s.handleLookup)
	mux.HandleFunc("/collection", s.handleCollection)
	mux.HandleFunc("/collection/seed", s.handleCollectionSeed)
	mux.HandleFunc("/collection/", s.handleCollectionItem)
	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "movie-catalog",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/health" && p != "/ws"
		}),
	)
	return recoveryMiddleware(s.logger,
		corsMiddleware(s.corsOrigins,
			rateLimitMiddleware(s.rateLimit, s.rateBurst,
				metricsMiddleware(requestIDMiddleware(traced)))))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}
	if s.activity != nil {
		state := s.activity.State()
		payload["busy"] = state.Busy
		payload["inFlight"] = state.InFlight
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSearchTitle(w http.ResponseWriter, r *http.Request) {
	s.serveSearch(w, r, "title", s.catalog.SearchTitle)
}

func (s *Server) handleSearchActor(w http.ResponseWriter, r *http.Request) {
	s.serveSearch(w, r, "name", s.catalog.SearchActor)
}

func (s *Server) serveSearch(
	w http.ResponseWriter,
	r *http.Request,
	param string,
	run func(ctx context.Context, query string) ([]domain.MovieRecord, error),
) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.catalog == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "catalog service is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get(param))
	startedAt := time.Now()
	items, err := run(r.Context(), query)
	if err != nil {
		s.logger.Warn("search request failed",
			slog.String("path", r.URL.Path),
			slog.String("query", truncate(query, 80)),
			slog.String("error", err.Error()),
		)
		s.writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.MovieRecord{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Query:     query,
		Items:     items,
		Count:     len(items),
		ElapsedMS: time.Since(startedAt).Milliseconds(),
	})
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.catalog == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "catalog service is not configured")
		return
	}
	record, err := s.catalog.LookupTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/collection" {
		http.NotFound(w, r)
		return
	}
	if s.catalog == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "catalog service is not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		items, err := s.catalog.List(r.Context())
		if err != nil {
			s.logger.Error("collection list failed", slog.String("error", err.Error()))
			s.writeDomainError(w, err)
			return
		}
		if items == nil {
			items = []domain.MovieRecord{}
		}
		writeJSON(w, http.StatusOK, listResponse{Items: items, Count: len(items)})
	case http.MethodPost, http.MethodPut:
		var record domain.MovieRecord
		if err := decodeJSONBody(r, &record); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if err := s.catalog.Save(r.Context(), record); err != nil {
			s.writeDomainError(w, err)
			return
		}
		record.ID = strings.TrimSpace(record.ID)
		writeJSON(w, http.StatusOK, record)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCollectionSeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.catalog == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "catalog service is not configured")
		return
	}
	count, err := s.catalog.SeedDefaults(r.Context())
	if err != nil {
		s.logger.Error("collection seed failed", slog.String("error", err.Error()))
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"seeded": count})
}

func (s *Server) handleCollectionItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/collection/"))
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if s.catalog == nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "catalog service is not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, err := s.catalog.Get(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	case http.MethodDelete:
		if err := s.catalog.Delete(r.Context(), id); err != nil {
			s.writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	client := &wsClient{
		hub:  s.events,
		conn: conn,
		send: make(chan []byte, 256),
	}
	if s.activity != nil {
		if initial, err := json.Marshal(wsMessage{Type: eventActivity, Data: s.activity.State()}); err == nil {
			client.send <- initial
		}
	}
	select {
	case s.events.register <- client:
	case <-s.events.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrInvalidQuery), errors.Is(err, search.ErrQueryTooLong):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "timeout", "request cancelled")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func decodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
