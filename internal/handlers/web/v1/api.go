package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/orchestrators/fight"
)

// FightRequest is the body of POST /api/v1/fights and the data of a
// websocket "fight" message
type FightRequest struct {
	CharacterA string `json:"character_a"`
	CharacterB string `json:"character_b"`
}

// FightResponse is returned by POST /api/v1/fights. Transitions lists every
// view rendered while the request ran, in order.
type FightResponse struct {
	SessionID   string       `json:"session_id"`
	Token       string       `json:"token,omitempty"`
	Stale       bool         `json:"stale"`
	View        fight.View   `json:"view"`
	Transitions []fight.View `json:"transitions"`
}

// transitionRecorder is a Display that keeps what it was given. Sessions
// serialize Render calls so no lock is needed.
type transitionRecorder struct {
	views []fight.View
}

func (t *transitionRecorder) Render(_ context.Context, view fight.View) error {
	t.views = append(t.views, view)
	return nil
}

// createFight resolves one matchup. Fight outcomes, including failures, are
// reported in the view with a 200; only unreadable requests are rejected.
func (h *Handler) createFight(w http.ResponseWriter, r *http.Request) {
	var req FightRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.WrapWithCode(err, errors.CodeInvalidArgument, "request body must be a JSON object"))
		return
	}

	sessionID := strings.TrimSpace(r.Header.Get(HeaderSessionID))
	if sessionID == "" {
		sessionID = h.sessionIDs.Generate()
	}
	w.Header().Set(HeaderSessionID, sessionID)

	recorder := &transitionRecorder{views: []fight.View{}}
	output, err := h.fightService.Fight(r.Context(), &fight.FightInput{
		Session:    fight.NewSession(sessionID, recorder),
		CharacterA: req.CharacterA,
		CharacterB: req.CharacterB,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FightResponse{
		SessionID:   sessionID,
		Token:       output.Token,
		Stale:       output.Stale,
		View:        output.View,
		Transitions: recorder.views,
	})
}
