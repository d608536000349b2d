package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/display"
	"github.com/coreman2200/funtimes-ledmatrix/internal/storage"
)

// Server is the operator API: playlist editing, brightness, preview
// arbitration, image upload, and the event websocket. All display mutations
// go through the controller's public operations and are persisted through
// the store.
type Server struct {
	controller *display.Controller
	store      *storage.Store
	hub        *Hub
}

func NewServer(controller *display.Controller, store *storage.Store, hub *Hub) *Server {
	return &Server{controller: controller, store: store, hub: hub}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/display/info", s.handleDisplayInfo)

	r.Get("/api/playlist/items", s.handleListItems)
	r.Post("/api/playlist/items", s.handleCreateItem)
	r.Get("/api/playlist/items/{id}", s.handleGetItem)
	r.Put("/api/playlist/items/{id}", s.handleUpdateItem)
	r.Delete("/api/playlist/items/{id}", s.handleDeleteItem)
	r.Put("/api/playlist/reorder", s.handleReorder)
	r.Get("/api/playlist/repeat", s.handleGetRepeat)
	r.Put("/api/playlist/repeat", s.handleSetRepeat)

	r.Get("/api/settings/brightness", s.handleGetBrightness)
	r.Put("/api/settings/brightness", s.handleSetBrightness)

	r.Post("/api/preview", s.handleStartPreview)
	r.Put("/api/preview", s.handleUpdatePreview)
	r.Delete("/api/preview", s.handleExitPreview)
	r.Get("/api/preview/status", s.handlePreviewStatus)
	r.Post("/api/preview/ping", s.handlePreviewPing)
	r.Post("/api/preview/session", s.handleCheckSession)

	r.Post("/api/images", s.handleUploadImage)
	r.Get("/api/images/{id}", s.handleFetchImage)

	r.Get("/api/events/ws", s.hub.HandleWS)

	return r
}

// CORS allows the web UI to be served from a different origin during
// development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Session-Id")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger writes one debug line per handled request. Enabled by the
// interface_logging config setting.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleDisplayInfo(w http.ResponseWriter, r *http.Request) {
	width, height := s.controller.Size()
	writeJSON(w, http.StatusOK, map[string]int{
		"width":  width,
		"height": height,
	})
}

// persistPlaylist saves the controller's current queue and sweeps image files
// no item references anymore.
func (s *Server) persistPlaylist() {
	snapshot := s.controller.Snapshot()
	if err := s.store.SavePlaylist(snapshot); err != nil {
		log.Error().Err(err).Msg("failed to save playlist")
	}
	if removed := s.store.CleanupUnusedImages(snapshot); removed > 0 {
		log.Info().Int("removed", removed).Msg("cleaned up unreferenced images")
	}
	if s.hub != nil {
		s.hub.PlaylistChanged()
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
