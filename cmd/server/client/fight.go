package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	v1 "github.com/KirkDiggler/versus-api/internal/handlers/web/v1"
	"github.com/KirkDiggler/versus-api/internal/orchestrators/fight"
)

var (
	characterA string
	characterB string
	sessionID  string
)

var fightCmd = &cobra.Command{
	Use:   "fight",
	Short: "Resolve a fight between two characters",
	Long:  `Ask the server who wins a fight between two characters and print the resulting view.`,
	RunE:  runFight,
}

func init() {
	fightCmd.Flags().StringVar(&characterA, "a", "", "first character (required)")
	fightCmd.Flags().StringVar(&characterB, "b", "", "second character (required)")
	fightCmd.Flags().StringVar(&sessionID, "session", "", "session ID, a new one is assigned when empty")
	_ = fightCmd.MarkFlagRequired("a") // nolint:errcheck // safe to ignore in init
	_ = fightCmd.MarkFlagRequired("b") // nolint:errcheck // safe to ignore in init
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func runFight(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var out v1.FightResponse
	var apiErr apiError

	req := newHTTPClient().R().
		SetContext(ctx).
		SetBody(v1.FightRequest{CharacterA: characterA, CharacterB: characterB}).
		SetResult(&out).
		SetError(&apiErr)
	if sessionID != "" {
		req.SetHeader(v1.HeaderSessionID, sessionID)
	}

	resp, err := req.Post("/api/v1/fights")
	if err != nil {
		return fmt.Errorf("failed to resolve fight: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("server returned %d: %s: %s", resp.StatusCode(), apiErr.Code, apiErr.Message)
	}

	printView(out)
	return nil
}

func printView(out v1.FightResponse) {
	fmt.Printf("Session: %s\n", out.SessionID)
	if out.Stale {
		fmt.Printf("⚠️  A newer fight superseded this one\n")
		return
	}

	view := out.View
	switch view.State {
	case fight.StateError:
		fmt.Printf("❌ %s\n", view.Error.Message)
	case fight.StateResults:
		r := view.Results
		fmt.Printf("🏆 Winner: %s\n\n", r.Winner)
		fmt.Printf("%s\n", r.CharacterA)
		fmt.Printf("  Strength: %s\n", r.StrengthA)
		fmt.Printf("  Special attack: %s\n", r.SpecialAttackA)
		fmt.Printf("%s\n", r.CharacterB)
		fmt.Printf("  Strength: %s\n", r.StrengthB)
		fmt.Printf("  Special attack: %s\n\n", r.SpecialAttackB)
		fmt.Printf("%s\n", r.FightDescription)
	default:
		fmt.Printf("State: %s\n", view.State)
	}
}
