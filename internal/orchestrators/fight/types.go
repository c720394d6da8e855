package fight

import (
	"github.com/KirkDiggler/versus-api/internal/errors"
)

// State is one of the four display states of a session
type State string

// Display states
const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
	StateResults State = "results"
)

const (
	// MessageMissingNames is shown when either name is blank after trimming
	MessageMissingNames = "Please enter names for both characters."

	// MessageUnknownError replaces an empty failure message
	MessageUnknownError = "Unknown error"

	failurePrefix = "An error occurred: "
)

// View is a snapshot of everything the page displays. Slot contents survive
// while their region is hidden, only visibility changes.
type View struct {
	State         State       `json:"state"`
	Loading       bool        `json:"loading"`
	SubmitEnabled bool        `json:"submit_enabled"`
	Error         ErrorView   `json:"error"`
	Results       ResultsView `json:"results"`
}

// ErrorView is the error region
type ErrorView struct {
	Visible bool        `json:"visible"`
	Message string      `json:"message"`
	Code    errors.Code `json:"code,omitempty"`
}

// ResultsView is the results region and its eight slots
type ResultsView struct {
	Visible          bool   `json:"visible"`
	Winner           string `json:"winner"`
	CharacterA       string `json:"character_a"`
	CharacterB       string `json:"character_b"`
	StrengthA        string `json:"strength_a"`
	StrengthB        string `json:"strength_b"`
	SpecialAttackA   string `json:"special_attack_a"`
	SpecialAttackB   string `json:"special_attack_b"`
	FightDescription string `json:"fight_description"`
}

// IdleView is the view of a fresh page
func IdleView() View {
	return View{
		State:         StateIdle,
		SubmitEnabled: true,
	}
}

// FightInput defines the request for resolving a fight
type FightInput struct {
	Session    *Session
	CharacterA string
	CharacterB string
}

// FightOutput defines the response for resolving a fight
type FightOutput struct {
	// View is the session's view after this request finished
	View View
	// Token identifies this request; empty when validation failed
	Token string
	// Stale is true when a newer request superseded this one and its
	// result was discarded
	Stale bool
}
