// Package api exposes a small localhost control surface: mode status,
// toggle, and a websocket stream of mode changes. Disabled by default.
package api

import (
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/bryanchriswhite/shareframe/internal/app"
	"github.com/bryanchriswhite/shareframe/internal/capture"
	"github.com/bryanchriswhite/shareframe/internal/config"
	"github.com/bryanchriswhite/shareframe/internal/logger"
)

// Server represents the HTTP control API.
type Server struct {
	router    *mux.Router
	loop      *app.Loop
	configMgr *config.Manager
	grabber   *capture.Grabber
	upgrader  websocket.Upgrader
}

// NewServer creates a new API server around the app loop.
func NewServer(loop *app.Loop, configMgr *config.Manager) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		loop:      loop,
		configMgr: configMgr,
		grabber:   capture.NewGrabber(),
		upgrader: websocket.Upgrader{
			// The server binds to loopback only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// mux answers 404 on method mismatch unless told otherwise.
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/toggle", s.handleToggle).Methods("POST")
	api.HandleFunc("/mode/stream", s.handleModeStream)
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods("GET")
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler returns the router, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server on loopback.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	logger.WithComponent("api").Info().Str("addr", addr).Msg("Control API listening")
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.loop.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(st)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	m, err := s.loop.Toggle(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"mode": string(m)})
}

func (s *Server) handleModeStream(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("api")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := s.loop.Subscribe()
	defer s.loop.Unsubscribe(updates)

	// Send the current mode first so clients need no separate fetch.
	if st, err := s.loop.Status(r.Context()); err == nil {
		if err := conn.WriteJSON(map[string]string{"mode": string(st.Mode)}); err != nil {
			return
		}
	}

	for m := range updates {
		if err := conn.WriteJSON(map[string]string{"mode": string(m)}); err != nil {
			log.Debug().Err(err).Msg("WebSocket write failed")
			return
		}
	}
}

// handleSnapshot returns a PNG of the screen content behind the frame,
// which is what a capturer sees of the framed region in sharing mode.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	st, err := s.loop.Status(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	img, err := s.grabber.Grab(st.Geometry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if v := r.URL.Query().Get("max_dim"); v != "" {
		maxDim, err := strconv.Atoi(v)
		if err != nil || maxDim <= 0 {
			http.Error(w, "invalid max_dim", http.StatusBadRequest)
			return
		}
		img = capture.Scale(img, maxDim)
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		logger.WithComponent("api").Debug().Err(err).Msg("Snapshot encode failed")
	}
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg := s.configMgr.Get()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
