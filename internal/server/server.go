// Package server provides the HTTP API for the showroom storefront.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/showroom/internal/assets"
	"github.com/hyperjump/showroom/internal/chat"
	"github.com/hyperjump/showroom/internal/config"
	"github.com/hyperjump/showroom/internal/inventory"
	"github.com/hyperjump/showroom/internal/storage"
)

// Server is the HTTP server for the showroom API.
type Server struct {
	storage storage.Storage
	index   *inventory.Index
	relay   *chat.Relay // nil when the model provider is not configured
	assets  *assets.Store
	config  *config.ServerConfig
	logger  *zap.Logger
	server  *http.Server

	chatMu  sync.RWMutex
	chatCfg config.ChatConfig
}

// NewServer creates a server with the given dependencies. relay may be nil,
// in which case chat requests are answered with a configuration error.
func NewServer(
	store storage.Storage,
	index *inventory.Index,
	relay *chat.Relay,
	assetStore *assets.Store,
	cfg *config.ServerConfig,
	chatCfg config.ChatConfig,
	logger *zap.Logger,
) *Server {
	return &Server{
		storage: store,
		index:   index,
		relay:   relay,
		assets:  assetStore,
		config:  cfg,
		chatCfg: chatCfg,
		logger:  logger,
	}
}

// UpdateChatConfig swaps the chat settings; used by config hot-reload.
func (s *Server) UpdateChatConfig(chatCfg config.ChatConfig) {
	s.chatMu.Lock()
	s.chatCfg = chatCfg
	s.chatMu.Unlock()
	if s.relay != nil {
		s.relay.SetOptions(chat.Options{
			PromptTemplate: chatCfg.PromptTemplate,
			BrochureMode:   chatCfg.BrochureMode,
		})
	}
}

func (s *Server) chatConfig() config.ChatConfig {
	s.chatMu.RLock()
	defer s.chatMu.RUnlock()
	return s.chatCfg
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Generous timeout; model calls can be slow.
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(corsMiddleware)

	// Chat relay. /chat is kept as an alias for the function-hosted deploy.
	r.Post("/api/chat", s.handleChat)
	r.Post("/chat", s.handleChat)
	r.Get("/health", s.handleHealth)

	// Public reads and the appointment funnel.
	r.Get("/api/v1/cars", s.handleListCars)
	r.Get("/api/v1/cars/search", s.handleSearchCars)
	r.Get("/api/v1/cars/{id}", s.handleGetCar)
	r.Get("/api/v1/settings", s.handleGetSettings)
	r.Get("/api/v1/settings/themes", s.handleThemePresets)
	r.Post("/api/v1/appointments", s.handleCreateAppointment)

	// Admin surface.
	r.Group(func(r chi.Router) {
		r.Use(s.adminAuth)
		r.Post("/api/v1/cars", s.handleCreateCar)
		r.Put("/api/v1/cars/{id}", s.handleUpdateCar)
		r.Delete("/api/v1/cars/{id}", s.handleDeleteCar)
		r.Put("/api/v1/settings", s.handlePutSettings)
		r.Get("/api/v1/appointments", s.handleListAppointments)
		r.Post("/api/v1/assets", s.handleUploadAsset)
	})

	if s.assets != nil {
		fileServer := http.StripPrefix("/assets/", http.FileServer(http.Dir(s.assets.Dir())))
		r.Get("/assets/*", fileServer.ServeHTTP)
	}

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// adminAuth enforces the static bearer token when one is configured.
// Sign-in itself is delegated to the fronting identity provider; the token
// is a deployment-level guard, not user auth.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.config.AdminToken != "" {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got != s.config.AdminToken {
				s.respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware allows browser calls from any origin, matching the
// original deployments which ran the API on a separate host from the page.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
