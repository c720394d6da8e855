package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/orchestrators/fight"
	fighttoken "github.com/KirkDiggler/versus-api/internal/repositories/fight_token"
)

// Websocket message types
const (
	MessageTypeFight = "fight"
	MessageTypeView  = "view"
	MessageTypeError = "error"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4 << 10
)

// Message is the envelope for every websocket frame in both directions
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// wsDisplay writes views to one connection. gorilla/websocket allows a
// single concurrent writer, so every write goes through mu.
type wsDisplay struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (d *wsDisplay) Render(_ context.Context, view fight.View) error {
	return d.write(outMessage{Type: MessageTypeView, Data: view})
}

func (d *wsDisplay) sendError(err error) error {
	return d.write(outMessage{Type: MessageTypeError, Data: errorResponse{
		Code:    errors.GetCode(err),
		Message: errors.GetMessage(err),
	}})
}

func (d *wsDisplay) write(msg outMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.conn.SetWriteDeadline(deadline(writeWait)); err != nil {
		return err
	}
	return d.conn.WriteJSON(msg)
}

// serveWebsocket owns one page. Each fight message runs in its own goroutine
// so a resubmit while a fight is in flight supersedes it.
func (h *Handler) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		slog.WarnContext(r.Context(), "Websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)

	if !h.track(conn) {
		closeGoingAway(conn)
		return
	}
	defer h.untrack(conn)

	ctx, cancel := context.WithCancel(r.Context())
	sessionID := h.sessionIDs.Generate()
	display := &wsDisplay{conn: conn}
	session := fight.NewSession(sessionID, display)

	var fights sync.WaitGroup
	defer func() {
		cancel()
		fights.Wait()
		_ = conn.Close()
		h.forget(sessionID)
		slog.Info("Websocket disconnected", "session_id", sessionID)
	}()

	slog.InfoContext(ctx, "Websocket connected",
		"session_id", sessionID,
		"remote_addr", r.RemoteAddr)

	if err := session.Refresh(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to send initial view", "session_id", sessionID, "error", err)
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.WarnContext(ctx, "Websocket read failed", "session_id", sessionID, "error", err)
			}
			return
		}

		switch msg.Type {
		case MessageTypeFight:
			var req FightRequest
			if err := json.Unmarshal(msg.Data, &req); err != nil {
				_ = display.sendError(errors.WrapWithCode(err, errors.CodeInvalidArgument, "fight data must be a JSON object"))
				continue
			}

			fights.Add(1)
			go func() {
				defer fights.Done()
				_, err := h.fightService.Fight(ctx, &fight.FightInput{
					Session:    session,
					CharacterA: req.CharacterA,
					CharacterB: req.CharacterB,
				})
				if err != nil {
					slog.ErrorContext(ctx, "Fight rejected", "session_id", sessionID, "error", err)
					_ = display.sendError(err)
				}
			}()
		default:
			_ = display.sendError(errors.InvalidArgumentf("unknown message type %q", msg.Type))
		}
	}
}

// track registers conn unless Shutdown has started
func (h *Handler) track(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.conns[conn] = struct{}{}
	h.wg.Add(1)
	return true
}

func (h *Handler) untrack(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	h.wg.Done()
}

// forget drops a closed session's token so it does not linger until its TTL
func (h *Handler) forget(sessionID string) {
	if h.tokenRepo == nil {
		return
	}
	if _, err := h.tokenRepo.Delete(context.Background(), fighttoken.DeleteInput{SessionID: sessionID}); err != nil {
		slog.Warn("Failed to delete fight token", "session_id", sessionID, "error", err)
	}
}

func deadline(d time.Duration) time.Time {
	return time.Now().Add(d)
}
