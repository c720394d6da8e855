// Package fight validates matchups, drives a session's display through its
// loading, error and results states, and discards superseded results
package fight

//go:generate mockgen -destination=mock/mock_service.go -package=fightmock github.com/KirkDiggler/versus-api/internal/orchestrators/fight Service

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KirkDiggler/versus-api/internal/clients/gemini"
	"github.com/KirkDiggler/versus-api/internal/entities"
	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/pkg/clock"
	fighttoken "github.com/KirkDiggler/versus-api/internal/repositories/fight_token"
)

// Service defines the interface for fight operations
type Service interface {
	// Fight validates the names, resolves the matchup and renders every
	// intermediate view to the session. Failures of the matchup itself are
	// rendered, not returned; the error is only for unusable input.
	Fight(ctx context.Context, input *FightInput) (*FightOutput, error)
}

// Config holds the dependencies for the fight orchestrator
type Config struct {
	Client    gemini.Client
	TokenRepo fighttoken.Repository
	Clock     clock.Clock
	// TokenTTL bounds how long a request stays current (optional, repository default when zero)
	TokenTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.TokenRepo == nil {
		vb.RequiredField("TokenRepo")
	}
	if c.TokenTTL < 0 {
		vb.Field("TokenTTL", "must not be negative")
	}

	return vb.Build()
}

type orchestrator struct {
	client    gemini.Client
	tokenRepo fighttoken.Repository
	clock     clock.Clock
	tokenTTL  time.Duration
}

// NewOrchestrator creates a new fight orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &orchestrator{
		client:    cfg.Client,
		tokenRepo: cfg.TokenRepo,
		clock:     clk,
		tokenTTL:  cfg.TokenTTL,
	}, nil
}

func (o *orchestrator) Fight(ctx context.Context, input *FightInput) (*FightOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Session == nil {
		return nil, errors.InvalidArgument("session is required")
	}

	session := input.Session
	characterA := strings.TrimSpace(input.CharacterA)
	characterB := strings.TrimSpace(input.CharacterB)

	if characterA == "" || characterB == "" {
		var view View
		session.withLock(func() {
			view = session.renderLocked(ctx, func(v *View) {
				v.State = StateError
				v.Error = ErrorView{
					Visible: true,
					Message: MessageMissingNames,
					Code:    errors.CodeInvalidArgument,
				}
				v.Results.Visible = false
			})
		})
		return &FightOutput{View: view}, nil
	}

	var (
		token    string
		issueErr error
	)
	session.withLock(func() {
		issued, err := o.tokenRepo.Issue(ctx, fighttoken.IssueInput{
			SessionID: session.ID(),
			TTL:       o.tokenTTL,
		})
		if err != nil {
			issueErr = err
			return
		}
		token = issued.Token.Value

		session.renderLocked(ctx, func(v *View) {
			v.State = StateLoading
			v.Loading = true
			v.SubmitEnabled = false
			v.Error.Visible = false
			v.Results.Visible = false
		})
	})
	if issueErr != nil {
		slog.ErrorContext(ctx, "Failed to issue fight token",
			"session_id", session.ID(),
			"error", issueErr)
		var view View
		session.withLock(func() {
			view = session.renderLocked(ctx, func(v *View) { applyFailure(v, issueErr) })
		})
		return &FightOutput{View: view}, nil
	}

	slog.InfoContext(ctx, "Fight started",
		"session_id", session.ID(),
		"token", token,
		"character_a", characterA,
		"character_b", characterB)

	start := o.clock.Now()
	result, fightErr := o.client.ResolveFight(ctx, characterA, characterB)
	elapsed := o.clock.Now().Sub(start)

	// The page may have gone away; finish bookkeeping regardless
	finishCtx := context.WithoutCancel(ctx)

	output := &FightOutput{Token: token}
	session.withLock(func() {
		if !o.isLatest(finishCtx, session.ID(), token) {
			output.Stale = true
			output.View = session.view
			return
		}

		output.View = session.renderLocked(finishCtx, func(v *View) {
			if fightErr != nil {
				applyFailure(v, fightErr)
			} else {
				applyResult(v, characterA, characterB, result)
			}
			v.Loading = false
			v.SubmitEnabled = true
		})
	})

	switch {
	case output.Stale:
		slog.InfoContext(ctx, "Discarding stale fight result",
			"session_id", session.ID(),
			"token", token,
			"duration", elapsed)
	case fightErr != nil:
		slog.WarnContext(ctx, "Fight failed",
			"session_id", session.ID(),
			"token", token,
			"code", errors.GetCode(fightErr),
			"meta", errors.GetMeta(fightErr),
			"duration", elapsed,
			"error", fightErr)
	case result != nil:
		slog.InfoContext(ctx, "Fight resolved",
			"session_id", session.ID(),
			"token", token,
			"winner", result.Winner,
			"duration", elapsed)
	}

	return output, nil
}

// isLatest treats a failed lookup as current so a result is never lost to a
// token store outage
func (o *orchestrator) isLatest(ctx context.Context, sessionID, token string) bool {
	check, err := o.tokenRepo.IsLatest(ctx, fighttoken.IsLatestInput{
		SessionID: sessionID,
		Token:     token,
	})
	if err != nil {
		slog.WarnContext(ctx, "Failed to check fight token, applying result",
			"session_id", sessionID,
			"token", token,
			"error", err)
		return true
	}
	return check.Latest
}

func applyFailure(v *View, err error) {
	message := errors.GetMessage(err)
	if message == "" {
		message = MessageUnknownError
	}

	v.State = StateError
	v.Error = ErrorView{
		Visible: true,
		Message: failurePrefix + message,
		Code:    errors.GetCode(err),
	}
	v.Results.Visible = false
}

func applyResult(v *View, characterA, characterB string, result *entities.FightResult) {
	if result == nil {
		applyFailure(v, errors.DataLoss("the generation service returned no result"))
		return
	}

	v.State = StateResults
	v.Error.Visible = false
	v.Results = ResultsView{
		Visible:          true,
		Winner:           result.Winner,
		CharacterA:       characterA,
		CharacterB:       characterB,
		StrengthA:        FormatStrength(result.StrengthA),
		StrengthB:        FormatStrength(result.StrengthB),
		SpecialAttackA:   result.SpecialAttackA.String(),
		SpecialAttackB:   result.SpecialAttackB.String(),
		FightDescription: result.FightDescription,
	}
}

// FormatStrength renders a strength score in its shortest decimal form.
// Very large and very small magnitudes use exponent notation.
func FormatStrength(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
