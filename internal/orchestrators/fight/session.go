package fight

import (
	"context"
	"log/slog"
	"sync"
)

// Display receives every view a session renders, in order
type Display interface {
	Render(ctx context.Context, view View) error
}

// DisplayFunc adapts a function to Display
type DisplayFunc func(ctx context.Context, view View) error

// Render calls f
func (f DisplayFunc) Render(ctx context.Context, view View) error {
	return f(ctx, view)
}

// Session is one page's display surface. Views are rendered while the session
// lock is held, so a Display never sees concurrent writes.
type Session struct {
	id      string
	display Display

	mu   sync.Mutex
	view View
}

// NewSession creates a session in the idle state. display may be nil.
func NewSession(id string, display Display) *Session {
	return &Session{
		id:      id,
		display: display,
		view:    IdleView(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// View returns the current view
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Refresh re-renders the current view, e.g. to a newly connected page
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.display == nil {
		return nil
	}
	return s.display.Render(ctx, s.view)
}

// withLock runs fn while holding the session lock
func (s *Session) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// renderLocked applies mutate and pushes the new view. Caller holds mu.
// A failed display write is logged; the view still changes.
func (s *Session) renderLocked(ctx context.Context, mutate func(v *View)) View {
	mutate(&s.view)
	if s.display != nil {
		if err := s.display.Render(ctx, s.view); err != nil {
			slog.WarnContext(ctx, "Failed to render view",
				"session_id", s.id,
				"state", s.view.State,
				"error", err)
		}
	}
	return s.view
}
