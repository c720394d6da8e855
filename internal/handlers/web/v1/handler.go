// Package v1 serves the fight page, its websocket and the JSON fights API
package v1

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/orchestrators/fight"
	"github.com/KirkDiggler/versus-api/internal/pkg/idgen"
	fighttoken "github.com/KirkDiggler/versus-api/internal/repositories/fight_token"
)

//go:embed static
var staticFS embed.FS

const (
	// HeaderSessionID carries the caller's session on the JSON API
	HeaderSessionID = "X-Session-ID"

	maxRequestBytes = 64 << 10
)

// HandlerConfig holds dependencies for the web handler
type HandlerConfig struct {
	FightService fight.Service
	// SessionIDs names new sessions (optional, defaults to prefixed UUIDs)
	SessionIDs idgen.Generator
	// TokenRepo lets closed websocket sessions drop their token (optional)
	TokenRepo fighttoken.Repository
	// Health reports readiness of backing services (optional)
	Health func(ctx context.Context) error
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	if c == nil {
		return errors.InvalidArgument("handler config is required")
	}
	if c.FightService == nil {
		return errors.InvalidArgument("fight service is required")
	}
	return nil
}

// Handler serves the page, the websocket and the JSON API
type Handler struct {
	fightService fight.Service
	sessionIDs   idgen.Generator
	tokenRepo    fighttoken.Repository
	health       func(ctx context.Context) error

	upgrader  websocket.Upgrader
	indexHTML []byte

	mu      sync.Mutex
	conns   map[*websocket.Conn]struct{}
	closing bool
	wg      sync.WaitGroup
}

// NewHandler creates a new web handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	indexHTML, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to load index page")
	}

	sessionIDs := cfg.SessionIDs
	if sessionIDs == nil {
		sessionIDs = idgen.NewUUID("sess")
	}

	return &Handler{
		fightService: cfg.FightService,
		sessionIDs:   sessionIDs,
		tokenRepo:    cfg.TokenRepo,
		health:       cfg.Health,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		indexHTML: indexHTML,
		conns:     make(map[*websocket.Conn]struct{}),
	}, nil
}

// Router returns the routes wrapped in logging and recovery middleware
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(RecoveryMiddleware, LoggingMiddleware)

	r.HandleFunc("/", h.serveIndex).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(staticFS))).Methods(http.MethodGet)
	r.HandleFunc("/ws", h.serveWebsocket).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.serveHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/fights", h.createFight).Methods(http.MethodPost)

	return r
}

// Shutdown closes every open websocket, refuses new ones and waits for
// in-flight fights to finish or for ctx to end
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	h.closing = true
	for conn := range h.conns {
		closeGoingAway(conn)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "websocket sessions did not finish in time")
	}
}

func closeGoingAway(conn *websocket.Conn) {
	// nolint:errcheck // best effort, the close below ends the read loop regardless
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		deadline(writeWait))
	_ = conn.Close()
}

func (h *Handler) serveIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(h.indexHTML)
}

func (h *Handler) serveHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			slog.WarnContext(r.Context(), "Health check failed", "error", err)
			writeError(w, errors.WrapWithCode(err, errors.CodeUnavailable, "backing services unavailable"))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, code.HTTPStatus(), errorResponse{
		Code:    code,
		Message: errors.GetMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("Failed to write response", "error", err)
	}
}
