// Package gemini resolves fights with the Gemini generation service
package gemini

//go:generate mockgen -destination=mock/mock_client.go -package=geminimock github.com/KirkDiggler/versus-api/internal/clients/gemini Client

import (
	"context"
	"iter"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/KirkDiggler/versus-api/internal/entities"
	"github.com/KirkDiggler/versus-api/internal/errors"
)

const (
	// DefaultModel is used when Config.Model is empty
	DefaultModel = "gemini-2.5-flash"

	// DefaultRequestTimeout bounds a single fight resolution
	DefaultRequestTimeout = 60 * time.Second

	// PlaceholderAPIKey is the value shipped in sample configs; it is never a real key
	PlaceholderAPIKey = "YOUR_API_KEY"

	// MessageMissingAPIKey is shown to the user when no usable key is configured
	MessageMissingAPIKey = "GEMINI_API_KEY is not set. Set it to your Google AI Studio API key and restart the server."
)

// Client resolves a matchup into a structured FightResult
type Client interface {
	// ResolveFight sends both names to the model and decodes the streamed reply.
	// Errors carry CodeCanceled, CodeDeadlineExceeded, CodeUnavailable or CodeDataLoss.
	ResolveFight(ctx context.Context, characterA, characterB string) (*entities.FightResult, error)
}

// ContentStreamer is the slice of the genai SDK we depend on. *genai.Models satisfies it.
type ContentStreamer interface {
	GenerateContentStream(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Config holds the configuration for the gemini client
type Config struct {
	// APIKey for the Gemini API (required unless Streamer is set)
	APIKey string
	// Model name (optional, defaults to DefaultModel)
	Model string
	// RequestTimeout for a whole streamed call (optional, defaults to DefaultRequestTimeout)
	RequestTimeout time.Duration
	// Temperature passed to the model (optional, model default when nil)
	Temperature *float32
	// RateLimit in requests per second across all callers (optional, zero means unlimited)
	RateLimit float64
	// Streamer overrides the SDK client (optional, used by tests)
	Streamer ContentStreamer
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("gemini config is required")
	}

	if cfg.Streamer == nil {
		key := strings.TrimSpace(cfg.APIKey)
		if key == "" || key == PlaceholderAPIKey {
			return errors.FailedPrecondition(MessageMissingAPIKey)
		}
	}

	if cfg.RateLimit < 0 {
		return errors.InvalidArgumentf("rate limit must not be negative, got %v", cfg.RateLimit)
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	return nil
}

type client struct {
	streamer       ContentStreamer
	model          string
	requestTimeout time.Duration
	temperature    *float32
	limiter        *rate.Limiter
}

// New creates a gemini client. A missing or placeholder key is a CodeFailedPrecondition error.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	streamer := cfg.Streamer
	if streamer == nil {
		sdk, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  strings.TrimSpace(cfg.APIKey),
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeFailedPrecondition, "failed to create gemini client")
		}
		streamer = sdk.Models
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &client{
		streamer:       streamer,
		model:          cfg.Model,
		requestTimeout: cfg.RequestTimeout,
		temperature:    cfg.Temperature,
		limiter:        rate.NewLimiter(limit, 1),
	}, nil
}

func (c *client) ResolveFight(ctx context.Context, characterA, characterB string) (*entities.FightResult, error) {
	// The timeout covers time queued behind the rate limit
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		// Wait gives up early when the deadline cannot be met
		if ctx.Err() == nil {
			return nil, errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "the fight took too long to resolve")
		}
		return nil, transportError(ctx, err)
	}

	req := buildRequest(c.model, c.temperature, characterA, characterB)

	start := time.Now()
	text, chunks, err := assemble(c.streamer.GenerateContentStream(ctx, req.model, req.contents, req.config))
	if err != nil {
		slog.WarnContext(ctx, "Fight stream failed",
			"model", c.model,
			"chunks", chunks,
			"error", err)
		return nil, transportError(ctx, err)
	}

	result, err := decodeFightResult(text)
	if err != nil {
		slog.WarnContext(ctx, "Fight response could not be decoded",
			"model", c.model,
			"chunks", chunks,
			"bytes", len(text),
			"error", err)
		return nil, err
	}

	slog.DebugContext(ctx, "Fight resolved",
		"model", c.model,
		"chunks", chunks,
		"bytes", len(text),
		"duration", time.Since(start))

	return result, nil
}

// transportError classifies a stream failure, preferring the caller's context state
func transportError(ctx context.Context, err error) *errors.Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "the fight took too long to resolve")
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return errors.WrapWithCode(err, errors.CodeCanceled, "the fight request was canceled")
	default:
		return errors.WrapWithCode(err, errors.CodeUnavailable, err.Error())
	}
}

type disabledClient struct {
	err error
}

// Disabled returns a Client that fails every call with err without contacting the service.
// The server uses it when the key is missing so the page can still report the problem.
func Disabled(err error) Client {
	if err == nil {
		err = errors.FailedPrecondition(MessageMissingAPIKey)
	}
	return &disabledClient{err: err}
}

func (d *disabledClient) ResolveFight(_ context.Context, _, _ string) (*entities.FightResult, error) {
	return nil, d.err
}
