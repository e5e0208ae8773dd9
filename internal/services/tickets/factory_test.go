package tickets

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riordanpawley/codeflow/internal/config"
	"github.com/riordanpawley/codeflow/internal/core/puzzle"
	"github.com/riordanpawley/codeflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("TICKET-%06d", n)
	}
}

func TestGenerateTicket(t *testing.T) {
	cfg := config.DefaultGameConfig()
	f := NewFactory(cfg, WithSeed(7), WithIDFunc(counterIDs()))

	for sprint := 1; sprint <= 12; sprint++ {
		tk, err := f.GenerateTicket(sprint)
		require.NoError(t, err)

		assert.Contains(t, domain.TicketTypes, tk.Type)
		assert.Equal(t, domain.StatusBacklog, tk.Status)
		assert.Equal(t, 0, tk.TimeSpent)
		assert.Equal(t, sprint, tk.CreationSprint)
		assert.Equal(t, tk.Type.Description(), tk.Description)
		assert.True(t, strings.HasPrefix(tk.Title, tk.Type.Prefix()+" "), "title %q", tk.Title)
		assert.True(t, strings.HasSuffix(tk.Title, "(#"+tk.ID[len(tk.ID)-4:]+")"), "title %q", tk.Title)

		n := tk.Size()
		assert.GreaterOrEqual(t, n, cfg.MinPuzzleSize)
		assert.LessOrEqual(t, n, MaxSizeForSprint(cfg, sprint))

		r := cfg.LockedRange(tk.Type)
		assert.GreaterOrEqual(t, tk.PuzzleDefinition.LockedPercent, r.Min)
		assert.LessOrEqual(t, tk.PuzzleDefinition.LockedPercent, r.Max)
		assert.Equal(t, StoryPoints(cfg, n, tk.PuzzleDefinition.LockedPercent), tk.StoryPoints)

		assert.True(t, puzzle.IsSolved(puzzle.Solve(tk.PuzzleDefinition)), "ticket %s puzzle must be solvable", tk.ID)
	}
}

func TestGenerateTicketCopiesAreIndependent(t *testing.T) {
	f := NewFactory(config.DefaultGameConfig(), WithSeed(3))

	tk, err := f.GenerateTicket(1)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(tk.PuzzleDefinition, tk.CurrentPuzzleState))

	// Find an unlocked tile and rotate it in the working copy only
	for r, row := range tk.CurrentPuzzleState.Grid {
		for c := range row {
			if row[c].Locked {
				continue
			}
			tk.CurrentPuzzleState.Grid[r][c].Rotation = (row[c].Rotation + 90) % 360
			assert.NotEmpty(t, cmp.Diff(tk.PuzzleDefinition, tk.CurrentPuzzleState))
			return
		}
	}
}

func TestGenerateTicketDefaultIDs(t *testing.T) {
	f := NewFactory(config.DefaultGameConfig())

	a, err := f.GenerateTicket(1)
	require.NoError(t, err)
	b, err := f.GenerateTicket(1)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(a.ID, "TICKET-"))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFactoryDeterminism(t *testing.T) {
	cfg := config.DefaultGameConfig()
	a := NewFactory(cfg, WithSeed(99), WithIDFunc(counterIDs()))
	b := NewFactory(cfg, WithSeed(99), WithIDFunc(counterIDs()))

	backlogA, err := a.InitialBacklog(5, 1)
	require.NoError(t, err)
	backlogB, err := b.InitialBacklog(5, 1)
	require.NoError(t, err)

	if diff := cmp.Diff(backlogA, backlogB); diff != "" {
		t.Errorf("same seed produced different backlogs (-a +b):\n%s", diff)
	}
}

func TestFactoryUsesInjectedGenerator(t *testing.T) {
	gen := puzzle.NewGenerator(puzzle.WithSeed(11), puzzle.WithStrict())
	ref := puzzle.NewGenerator(puzzle.WithSeed(11), puzzle.WithStrict())
	f := NewFactory(config.DefaultGameConfig(), WithSeed(4), WithGenerator(gen), WithIDFunc(counterIDs()))

	for range 3 {
		tk, err := f.GenerateTicket(2)
		require.NoError(t, err)

		want, err := ref.Generate(tk.Size(), tk.PuzzleDefinition.LockedPercent)
		require.NoError(t, err)
		if diff := cmp.Diff(want, tk.PuzzleDefinition); diff != "" {
			t.Errorf("ticket %s puzzle did not come from the injected generator (-want +got):\n%s", tk.ID, diff)
		}
	}
}

func TestInitialBacklog(t *testing.T) {
	f := NewFactory(config.DefaultGameConfig(), WithSeed(1))

	backlog, err := f.InitialBacklog(8, 1)
	require.NoError(t, err)
	assert.Len(t, backlog, 8)

	ids := make(map[string]bool)
	for _, tk := range backlog {
		assert.False(t, ids[tk.ID], "duplicate id %s", tk.ID)
		ids[tk.ID] = true
	}

	empty, err := f.InitialBacklog(0, 1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGrowBacklog(t *testing.T) {
	cfg := config.DefaultGameConfig()
	f := NewFactory(cfg, WithSeed(5), WithIDFunc(counterIDs()))

	backlog, err := f.InitialBacklog(3, 1)
	require.NoError(t, err)
	original := make([]domain.Ticket, len(backlog))
	copy(original, backlog)

	grown, err := f.GrowBacklog(backlog, 5)
	require.NoError(t, err)

	assert.Len(t, grown, 3+NewTicketCount(cfg, 5))
	assert.Empty(t, cmp.Diff(original, grown[:3]), "existing tickets keep their order")
	assert.Empty(t, cmp.Diff(original, backlog), "input is not modified")
	for _, tk := range grown[3:] {
		assert.Equal(t, 5, tk.CreationSprint)
	}
}

func TestNewTicketCount(t *testing.T) {
	cfg := config.DefaultGameConfig()

	tests := []struct {
		sprint int
		want   int
	}{
		{1, 2},
		{2, 2},
		{3, 3},
		{4, 3},
		{5, 4},
		{11, 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NewTicketCount(cfg, tt.sprint), "sprint %d", tt.sprint)
	}

	cfg.NewTicketsPerSprintBase = 0
	assert.Equal(t, 0, NewTicketCount(cfg, 0), "never negative")
}

func TestMaxSizeForSprint(t *testing.T) {
	cfg := config.DefaultGameConfig()

	assert.Equal(t, 6, MaxSizeForSprint(cfg, 1))
	assert.Equal(t, 6, MaxSizeForSprint(cfg, 2))
	assert.Equal(t, 7, MaxSizeForSprint(cfg, 3))
	assert.Equal(t, 9, MaxSizeForSprint(cfg, 10))
	assert.Equal(t, 10, MaxSizeForSprint(cfg, 12))
	assert.Equal(t, 10, MaxSizeForSprint(cfg, 100))
}

func TestStoryPoints(t *testing.T) {
	cfg := config.DefaultGameConfig()

	assert.Equal(t, 3, StoryPoints(cfg, 3, 0))
	assert.Equal(t, 4, StoryPoints(cfg, 3, 15))
	assert.Equal(t, 14, StoryPoints(cfg, 10, 75))

	// more size or more locks never lowers the estimate
	for n := 3; n < 10; n++ {
		for locked := 0; locked < 100; locked += 5 {
			assert.LessOrEqual(t, StoryPoints(cfg, n, locked), StoryPoints(cfg, n+1, locked))
			assert.LessOrEqual(t, StoryPoints(cfg, n, locked), StoryPoints(cfg, n, locked+5))
		}
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Fix: Security Flaw (#beef)", Title(domain.TicketBugFix, "Security Flaw", "TICKET-deadbeef"))
	assert.Equal(t, "Feat: Caching Layer (#7)", Title(domain.TicketNewFeature, "Caching Layer", "7"))
	assert.Equal(t, "Refactor: Monolithic Service (#0001)", Title(domain.TicketLegacyRewrite, "Monolithic Service", "TICKET-0001"))
}

func TestInvalidConfigSurfacesError(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.MinPuzzleSize = 2
	cfg.MaxPuzzleSizeInitial = 2
	cfg.MaxPuzzleSizeCap = 2

	f := NewFactory(cfg, WithSeed(1))
	_, err := f.GenerateTicket(1)
	assert.ErrorIs(t, err, domain.ErrInvalidPuzzle)
}
