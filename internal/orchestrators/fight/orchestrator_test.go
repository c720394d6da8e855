package fight_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/versus-api/internal/clients/gemini"
	geminimock "github.com/KirkDiggler/versus-api/internal/clients/gemini/mock"
	"github.com/KirkDiggler/versus-api/internal/entities"
	"github.com/KirkDiggler/versus-api/internal/errors"
	"github.com/KirkDiggler/versus-api/internal/orchestrators/fight"
	"github.com/KirkDiggler/versus-api/internal/pkg/clock"
	"github.com/KirkDiggler/versus-api/internal/pkg/idgen"
	fighttoken "github.com/KirkDiggler/versus-api/internal/repositories/fight_token"
	fighttokenmock "github.com/KirkDiggler/versus-api/internal/repositories/fight_token/mock"
	"github.com/KirkDiggler/versus-api/internal/testutils"
)

// recordingDisplay keeps every rendered view in order
type recordingDisplay struct {
	mu    sync.Mutex
	views []fight.View
	err   error
}

func (d *recordingDisplay) Render(_ context.Context, view fight.View) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.views = append(d.views, view)
	return d.err
}

func (d *recordingDisplay) Views() []fight.View {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]fight.View(nil), d.views...)
}

func sampleResult() *entities.FightResult {
	return &entities.FightResult{
		Winner:           "A",
		StrengthA:        10,
		StrengthB:        5,
		SpecialAttackA:   entities.SingleAttack("fire"),
		SpecialAttackB:   entities.MultipleAttacks("ice", "wind"),
		FightDescription: "...",
	}
}

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockClient   *geminimock.MockClient
	tokenRepo    fighttoken.Repository
	orchestrator fight.Service
	display      *recordingDisplay
	session      *fight.Session
	ctx          context.Context
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClient = geminimock.NewMockClient(s.ctrl)
	s.ctx = context.Background()

	repo, err := fighttoken.NewInMemory(&fighttoken.InMemoryConfig{
		Clock: clock.New(),
		IDGen: idgen.NewSequential("tok"),
	})
	s.Require().NoError(err)
	s.tokenRepo = repo

	s.orchestrator = s.newOrchestrator(s.mockClient, s.tokenRepo)
	s.display = &recordingDisplay{}
	s.session = fight.NewSession("sess_1", s.display)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) newOrchestrator(client gemini.Client, repo fighttoken.Repository) fight.Service {
	svc, err := fight.NewOrchestrator(&fight.Config{
		Client:    client,
		TokenRepo: repo,
		TokenTTL:  time.Minute,
	})
	s.Require().NoError(err)
	return svc
}

func (s *OrchestratorTestSuite) assertCleanedUp(view fight.View) {
	s.False(view.Loading, "loading indicator must end hidden")
	s.True(view.SubmitEnabled, "submit must end enabled")
}

func (s *OrchestratorTestSuite) TestNewOrchestrator_Validation() {
	testCases := []struct {
		name   string
		config *fight.Config
		errMsg string
	}{
		{name: "nil config", config: nil, errMsg: "config is required"},
		{name: "missing client", config: &fight.Config{TokenRepo: s.tokenRepo}, errMsg: "Client"},
		{name: "missing token repo", config: &fight.Config{Client: s.mockClient}, errMsg: "TokenRepo"},
		{
			name:   "negative ttl",
			config: &fight.Config{Client: s.mockClient, TokenRepo: s.tokenRepo, TokenTTL: -time.Second},
			errMsg: "TokenTTL",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			svc, err := fight.NewOrchestrator(tc.config)

			s.Nil(svc)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Contains(err.Error(), tc.errMsg)
		})
	}
}

func (s *OrchestratorTestSuite) TestFight_RequiresSession() {
	_, err := s.orchestrator.Fight(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Fight(s.ctx, &fight.FightInput{CharacterA: "A", CharacterB: "B"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestFight_Success() {
	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "Goku", "Superman").
		DoAndReturn(func(_ context.Context, _, _ string) (*entities.FightResult, error) {
			// loading is visible before any result exists
			views := s.display.Views()
			s.Require().Len(views, 1)
			s.Equal(fight.StateLoading, views[0].State)
			s.True(views[0].Loading)
			s.False(views[0].SubmitEnabled)
			s.False(views[0].Error.Visible)
			s.False(views[0].Results.Visible)
			return sampleResult(), nil
		})

	output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{
		Session:    s.session,
		CharacterA: "  Goku ",
		CharacterB: "Superman\t",
	})
	s.Require().NoError(err)

	s.False(output.Stale)
	s.Equal("tok_1", output.Token)
	s.Equal(fight.StateResults, output.View.State)
	s.assertCleanedUp(output.View)
	s.False(output.View.Error.Visible)

	results := output.View.Results
	s.True(results.Visible)
	s.Equal("A", results.Winner)
	s.Equal("Goku", results.CharacterA)
	s.Equal("Superman", results.CharacterB)
	s.Equal("10", results.StrengthA)
	s.Equal("5", results.StrengthB)
	s.Equal("fire", results.SpecialAttackA)
	s.Equal("ice, wind", results.SpecialAttackB)
	s.Equal("...", results.FightDescription)

	views := s.display.Views()
	s.Require().Len(views, 2)
	s.Equal(fight.StateLoading, views[0].State)
	s.Equal(output.View, views[1])
	s.Equal(output.View, s.session.View())
}

func (s *OrchestratorTestSuite) TestFight_BlankNamesShortCircuit() {
	testCases := []struct {
		name string
		a    string
		b    string
	}{
		{name: "both empty", a: "", b: ""},
		{name: "first empty", a: "", b: "Batman"},
		{name: "second whitespace", a: "Batman", b: "   "},
		{name: "first tabs and newlines", a: "\t\n", b: "Batman"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			display := &recordingDisplay{}
			session := fight.NewSession("sess_blank", display)

			// no ResolveFight expectation: any call fails the test
			output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{
				Session:    session,
				CharacterA: tc.a,
				CharacterB: tc.b,
			})
			s.Require().NoError(err)

			s.Empty(output.Token)
			s.Equal(fight.StateError, output.View.State)
			s.True(output.View.Error.Visible)
			s.Equal(fight.MessageMissingNames, output.View.Error.Message)
			s.Equal(errors.CodeInvalidArgument, output.View.Error.Code)
			s.False(output.View.Results.Visible)
			// loading and submit untouched from idle
			s.False(output.View.Loading)
			s.True(output.View.SubmitEnabled)

			views := display.Views()
			s.Require().Len(views, 1)
			s.Equal(fight.StateError, views[0].State)
		})
	}
}

func (s *OrchestratorTestSuite) TestFight_BlankNamesHidePreviousResults() {
	s.mockClient.EXPECT().ResolveFight(gomock.Any(), "A", "B").Return(sampleResult(), nil)

	_, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)
	s.Require().True(s.session.View().Results.Visible)

	output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A"})
	s.Require().NoError(err)

	s.Equal(fight.StateError, output.View.State)
	s.False(output.View.Results.Visible)
	// slot contents survive while hidden
	s.Equal("A", output.View.Results.Winner)
}

func (s *OrchestratorTestSuite) TestFight_Failures() {
	testCases := []struct {
		name        string
		err         error
		wantMessage string
		wantCode    errors.Code
	}{
		{
			name:        "malformed response",
			err:         errors.DataLoss("the generation service returned a response that is not a valid JSON object"),
			wantMessage: "An error occurred: the generation service returned a response that is not a valid JSON object",
			wantCode:    errors.CodeDataLoss,
		},
		{
			name:        "transport",
			err:         errors.Unavailable("quota exceeded"),
			wantMessage: "An error occurred: quota exceeded",
			wantCode:    errors.CodeUnavailable,
		},
		{
			name:        "empty message",
			err:         errors.New(errors.CodeUnavailable, ""),
			wantMessage: "An error occurred: Unknown error",
			wantCode:    errors.CodeUnavailable,
		},
		{
			name:        "plain error",
			err:         fmt.Errorf("boom"),
			wantMessage: "An error occurred: boom",
			wantCode:    errors.CodeInternal,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			display := &recordingDisplay{}
			session := fight.NewSession("sess_"+tc.name, display)
			s.mockClient.EXPECT().ResolveFight(gomock.Any(), "A", "B").Return(nil, tc.err)

			output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{
				Session:    session,
				CharacterA: "A",
				CharacterB: "B",
			})
			s.Require().NoError(err)

			s.Equal(fight.StateError, output.View.State)
			s.True(output.View.Error.Visible)
			s.Equal(tc.wantMessage, output.View.Error.Message)
			s.Equal(tc.wantCode, output.View.Error.Code)
			s.False(output.View.Results.Visible)
			s.assertCleanedUp(output.View)

			views := display.Views()
			s.Require().Len(views, 2)
			s.Equal(fight.StateLoading, views[0].State)
			s.Equal(fight.StateError, views[1].State)
		})
	}
}

func (s *OrchestratorTestSuite) TestFight_ExactlyOneOutcome() {
	outcomes := []struct {
		result *entities.FightResult
		err    error
	}{
		{result: sampleResult()},
		{err: errors.DataLoss("bad")},
	}

	for i, outcome := range outcomes {
		display := &recordingDisplay{}
		session := fight.NewSession(fmt.Sprintf("sess_outcome_%d", i), display)
		s.mockClient.EXPECT().ResolveFight(gomock.Any(), "A", "B").Return(outcome.result, outcome.err)

		output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{Session: session, CharacterA: "A", CharacterB: "B"})
		s.Require().NoError(err)

		s.NotEqual(output.View.Error.Visible, output.View.Results.Visible,
			"exactly one of error and results must be visible")
		s.assertCleanedUp(output.View)
	}
}

func (s *OrchestratorTestSuite) TestFight_MissingCredential() {
	svc := s.newOrchestrator(gemini.Disabled(errors.FailedPrecondition(gemini.MessageMissingAPIKey)), s.tokenRepo)

	output, err := svc.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.Equal(fight.StateError, output.View.State)
	s.Equal("An error occurred: "+gemini.MessageMissingAPIKey, output.View.Error.Message)
	s.Equal(errors.CodeFailedPrecondition, output.View.Error.Code)
	s.assertCleanedUp(output.View)
}

func (s *OrchestratorTestSuite) TestFight_StaleResultIsDiscarded() {
	var newer *fight.FightOutput

	// the first request is still in flight when the user resubmits
	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "A", "B").
		DoAndReturn(func(ctx context.Context, _, _ string) (*entities.FightResult, error) {
			var err error
			newer, err = s.orchestrator.Fight(ctx, &fight.FightInput{
				Session:    s.session,
				CharacterA: "C",
				CharacterB: "D",
			})
			s.Require().NoError(err)
			return sampleResult(), nil
		})
	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "C", "D").
		Return(&entities.FightResult{
			Winner:           "D",
			StrengthA:        1,
			StrengthB:        2.5,
			SpecialAttackA:   entities.SingleAttack("jab"),
			SpecialAttackB:   entities.SingleAttack("hook"),
			FightDescription: "quick",
		}, nil)

	older, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)
	s.Require().NotNil(newer)

	s.True(older.Stale)
	s.False(newer.Stale)
	s.NotEqual(older.Token, newer.Token)

	final := s.session.View()
	s.Equal(fight.StateResults, final.State)
	s.Equal("D", final.Results.Winner)
	s.Equal("C", final.Results.CharacterA)
	s.Equal("2.5", final.Results.StrengthB)
	s.Equal(final, older.View)
	s.assertCleanedUp(final)

	views := s.display.Views()
	s.Require().Len(views, 3)
	s.Equal(fight.StateLoading, views[0].State)
	s.Equal(fight.StateLoading, views[1].State)
	s.Equal(fight.StateResults, views[2].State)
}

func (s *OrchestratorTestSuite) TestFight_TokenExpiresMidFlight() {
	clk := clock.NewManual(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	repo, err := fighttoken.NewInMemory(&fighttoken.InMemoryConfig{
		Clock: clk,
		IDGen: idgen.NewSequential("tok"),
	})
	s.Require().NoError(err)
	svc := s.newOrchestrator(s.mockClient, repo)

	// The reply outlives the one-minute token with nobody resubmitting
	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "A", "B").
		DoAndReturn(func(context.Context, string, string) (*entities.FightResult, error) {
			clk.Advance(2 * time.Minute)
			return sampleResult(), nil
		})

	output, err := svc.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.False(output.Stale)
	s.Equal(fight.StateResults, output.View.State)
	s.Equal("A", output.View.Results.Winner)
	s.assertCleanedUp(output.View)
	s.Equal(output.View, s.session.View())
}

func (s *OrchestratorTestSuite) TestFight_TokenExpiresInRedisMidFlight() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	repo, err := fighttoken.NewRedis(&fighttoken.RedisConfig{
		Client: client,
		Clock:  clock.New(),
		IDGen:  idgen.NewSequential("tok"),
	})
	s.Require().NoError(err)
	svc := s.newOrchestrator(s.mockClient, repo)

	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "A", "B").
		DoAndReturn(func(context.Context, string, string) (*entities.FightResult, error) {
			mr.FastForward(2 * time.Minute)
			return nil, errors.Unavailable("connection reset")
		})

	output, err := svc.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.False(output.Stale)
	s.Equal(fight.StateError, output.View.State)
	s.Equal("An error occurred: connection reset", output.View.Error.Message)
	s.assertCleanedUp(output.View)
}

func (s *OrchestratorTestSuite) TestFight_TokenDeletedMidFlight() {
	// Closing the page deletes the session's token while the fight runs
	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "A", "B").
		DoAndReturn(func(ctx context.Context, _, _ string) (*entities.FightResult, error) {
			_, err := s.tokenRepo.Delete(ctx, fighttoken.DeleteInput{SessionID: "sess_1"})
			s.Require().NoError(err)
			return sampleResult(), nil
		})

	output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.False(output.Stale)
	s.Equal(fight.StateResults, output.View.State)
	s.assertCleanedUp(output.View)

	views := s.display.Views()
	s.Require().Len(views, 2)
	s.Equal(fight.StateResults, views[1].State)
}

func (s *OrchestratorTestSuite) TestFight_TokenIssueFailure() {
	mockRepo := fighttokenmock.NewMockRepository(s.ctrl)
	svc := s.newOrchestrator(s.mockClient, mockRepo)

	mockRepo.EXPECT().
		Issue(gomock.Any(), fighttoken.IssueInput{SessionID: "sess_1", TTL: time.Minute}).
		Return(nil, errors.Unavailable("failed to store fight token in Redis"))

	output, err := svc.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.Empty(output.Token)
	s.Equal(fight.StateError, output.View.State)
	s.Equal("An error occurred: failed to store fight token in Redis", output.View.Error.Message)
	s.assertCleanedUp(output.View)
}

func (s *OrchestratorTestSuite) TestFight_TokenCheckFailureStillApplies() {
	mockRepo := fighttokenmock.NewMockRepository(s.ctrl)
	svc := s.newOrchestrator(s.mockClient, mockRepo)

	mockRepo.EXPECT().
		Issue(gomock.Any(), gomock.Any()).
		Return(&fighttoken.IssueOutput{Token: &fighttoken.Token{SessionID: "sess_1", Value: "tok_x"}}, nil)
	mockRepo.EXPECT().
		IsLatest(gomock.Any(), fighttoken.IsLatestInput{SessionID: "sess_1", Token: "tok_x"}).
		Return(nil, errors.Unavailable("redis down"))
	s.mockClient.EXPECT().ResolveFight(gomock.Any(), "A", "B").Return(sampleResult(), nil)

	output, err := svc.Fight(s.ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.False(output.Stale)
	s.Equal(fight.StateResults, output.View.State)
}

func (s *OrchestratorTestSuite) TestFight_DisplayErrorsDoNotAbort() {
	display := &recordingDisplay{err: fmt.Errorf("websocket: close sent")}
	session := fight.NewSession("sess_closed", display)
	s.mockClient.EXPECT().ResolveFight(gomock.Any(), "A", "B").Return(sampleResult(), nil)

	output, err := s.orchestrator.Fight(s.ctx, &fight.FightInput{Session: session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.Equal(fight.StateResults, output.View.State)
	s.Len(display.Views(), 2)
}

func (s *OrchestratorTestSuite) TestFight_CanceledCallerStillCleansUp() {
	ctx, cancel := context.WithCancel(s.ctx)
	s.mockClient.EXPECT().
		ResolveFight(gomock.Any(), "A", "B").
		DoAndReturn(func(context.Context, string, string) (*entities.FightResult, error) {
			cancel()
			return nil, errors.New(errors.CodeCanceled, "the fight request was canceled")
		})

	output, err := s.orchestrator.Fight(ctx, &fight.FightInput{Session: s.session, CharacterA: "A", CharacterB: "B"})
	s.Require().NoError(err)

	s.Equal(fight.StateError, output.View.State)
	s.Equal(errors.CodeCanceled, output.View.Error.Code)
	s.assertCleanedUp(output.View)
}
