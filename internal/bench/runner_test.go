package bench

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/homorunner/ASG-benchmark/internal/game"
	"github.com/homorunner/ASG-benchmark/internal/puzzle"
	"github.com/homorunner/ASG-benchmark/internal/solver"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestRunner(opts ...Option) *Runner {
	opts = append(opts, WithClock(func() time.Time { return fixedTime }))
	return NewRunner(game.NewCatalog(), opts...)
}

func onePuzzle(id string, t game.Type, states, solutions []string) *puzzle.Collection {
	return &puzzle.Collection{
		Name: "test collection",
		Puzzles: []*puzzle.Puzzle{
			{ID: id, GameType: t, GameStates: states, Solutions: solutions},
		},
	}
}

func TestRun_SingleStepSolved(t *testing.T) {
	coll := onePuzzle("p1", game.GoGame, []string{"s0"}, []string{"e4"})
	s := solver.NewReplay("test", map[string][]string{"p1": {"e4"}})

	res := newTestRunner().Run(context.Background(), coll, s)

	ps := res.PuzzleScores[0]
	if ps.StepsSolved != 1 || ps.MaxSteps != 1 || ps.Score != 1 || !ps.SolvedFully {
		t.Fatalf("unexpected puzzle score: %+v", ps)
	}
	if res.TotalScore != 1 || res.MaxPossibleScore != 1 || res.AverageScore != 1.0 {
		t.Fatalf("unexpected aggregates: %+v", res)
	}
}

func TestRun_PartialCredit(t *testing.T) {
	coll := onePuzzle("p1", game.GoGame, []string{"s0", "s1"}, []string{"e4", "Nf3"})
	s := solver.NewReplay("test", map[string][]string{"p1": {"e4", "g3"}})

	res := newTestRunner().Run(context.Background(), coll, s)

	ps := res.PuzzleScores[0]
	if ps.StepsSolved != 1 || ps.MaxSteps != 2 || ps.SolvedFully {
		t.Fatalf("unexpected puzzle score: %+v", ps)
	}
	if res.TotalScore != 1 || res.MaxPossibleScore != 2 || res.AverageScore != 1.0 {
		t.Fatalf("unexpected aggregates: total=%g max=%g avg=%g", res.TotalScore, res.MaxPossibleScore, res.AverageScore)
	}
}

func TestRun_EmptyCandidates(t *testing.T) {
	coll := onePuzzle("p1", game.GoGame, []string{"s0", "s1"}, []string{"e4", "Nf3"})
	s := solver.NewReplay("test", nil)

	res := newTestRunner().Run(context.Background(), coll, s)

	ps := res.PuzzleScores[0]
	if ps.StepsSolved != 0 || ps.MaxSteps != 2 || ps.SolvedFully {
		t.Fatalf("unexpected puzzle score: %+v", ps)
	}
}

func TestRun_MonotonicPrefix(t *testing.T) {
	// A correct answer after a miss earns nothing.
	coll := onePuzzle("p1", game.GoGame, []string{"s0", "s1", "s2"}, []string{"a", "b", "c"})
	s := solver.NewReplay("test", map[string][]string{"p1": {"a", "x", "c"}})

	res := newTestRunner().Run(context.Background(), coll, s)

	if got := res.PuzzleScores[0].StepsSolved; got != 1 {
		t.Fatalf("steps_solved = %d, want 1", got)
	}
}

func TestRun_ZeroStepPuzzle(t *testing.T) {
	coll := onePuzzle("p1", game.GoGame, nil, nil)
	s := solver.NewReplay("test", nil)

	res := newTestRunner().Run(context.Background(), coll, s)

	ps := res.PuzzleScores[0]
	if ps.StepsSolved != 0 || ps.MaxSteps != 0 || ps.Score != 0 {
		t.Fatalf("unexpected puzzle score: %+v", ps)
	}
}

func TestRun_EmptyCollection(t *testing.T) {
	coll := &puzzle.Collection{Name: "empty"}
	s := solver.NewReplay("test", nil)

	res := newTestRunner().Run(context.Background(), coll, s)

	if res.TotalPuzzles != 0 || res.TotalScore != 0 || res.MaxPossibleScore != 0 || res.AverageScore != 0 {
		t.Fatalf("unexpected aggregates for empty collection: %+v", res)
	}
	if len(res.PuzzleScores) != 0 || len(res.GameTypeBreakdown) != 0 {
		t.Fatalf("expected empty score lists: %+v", res)
	}
}

func TestRun_BreakdownGrouping(t *testing.T) {
	coll := &puzzle.Collection{
		Name: "mixed",
		Puzzles: []*puzzle.Puzzle{
			{ID: "c1", GameType: game.Chess, GameStates: []string{"6k1/5ppp/8/8/8/8/8/4R2K w - - 0 1"}, Solutions: []string{"e1e8"}},
			{ID: "x1", GameType: game.Xiangqi, GameStates: []string{"s0"}, Solutions: []string{"e1e9"}},
		},
	}
	s := solver.NewReplay("test", map[string][]string{
		"c1": {"Re8"}, // SAN form of the expected UCI move
		"x1": {"wrong"},
	})

	res := newTestRunner().Run(context.Background(), coll, s)

	if len(res.GameTypeBreakdown) != 2 {
		t.Fatalf("expected 2 breakdown entries, got %d", len(res.GameTypeBreakdown))
	}
	chessEntry, xiangqiEntry := res.GameTypeBreakdown[0], res.GameTypeBreakdown[1]
	if chessEntry.GameType != game.Chess || chessEntry.Count != 1 || chessEntry.Score != 1 || chessEntry.MaxScore != 1 {
		t.Fatalf("unexpected chess entry: %+v", chessEntry)
	}
	if xiangqiEntry.GameType != game.Xiangqi || xiangqiEntry.Count != 1 || xiangqiEntry.Score != 0 || xiangqiEntry.MaxScore != 1 {
		t.Fatalf("unexpected xiangqi entry: %+v", xiangqiEntry)
	}
	if res.AverageScore != 0.5 {
		t.Fatalf("average_score = %g, want 0.5", res.AverageScore)
	}

	// Breakdown sums must match the totals.
	var sumScore, sumMax float64
	var count int
	for _, e := range res.GameTypeBreakdown {
		sumScore += e.Score
		sumMax += e.MaxScore
		count += e.Count
	}
	if sumScore != res.TotalScore || sumMax != res.MaxPossibleScore || count != res.TotalPuzzles {
		t.Fatalf("breakdown sums disagree with totals: %+v", res)
	}
}

func TestRun_UnknownGameTypeFallsBack(t *testing.T) {
	coll := onePuzzle("p1", game.Type("quantum-tictactoe"), []string{"s0"}, []string{"mv1"})
	s := solver.NewReplay("test", map[string][]string{"p1": {"mv1"}})

	res := newTestRunner().Run(context.Background(), coll, s)

	if !res.PuzzleScores[0].SolvedFully {
		t.Fatalf("exact match under unknown game type should score: %+v", res.PuzzleScores[0])
	}
}

func TestRunParallel_PreservesOrder(t *testing.T) {
	coll := &puzzle.Collection{Name: "bulk"}
	answers := make(map[string][]string)
	for i := 0; i < 40; i++ {
		id := fmt.Sprintf("p%02d", i)
		coll.Puzzles = append(coll.Puzzles, &puzzle.Puzzle{
			ID: id, GameType: game.GoGame,
			GameStates: []string{"s"}, Solutions: []string{"m"},
		})
		if i%3 == 0 {
			answers[id] = []string{"m"}
		}
	}
	s := solver.NewReplay("test", answers)

	serial := newTestRunner().Run(context.Background(), coll, s)
	parallel := newTestRunner().RunParallel(context.Background(), coll, s, 8)

	if !reflect.DeepEqual(serial.PuzzleScores, parallel.PuzzleScores) {
		t.Fatalf("parallel run reordered or changed scores")
	}
	if !reflect.DeepEqual(serial.GameTypeBreakdown, parallel.GameTypeBreakdown) {
		t.Fatalf("parallel breakdown differs from serial")
	}
	for i, ps := range parallel.PuzzleScores {
		if ps.PuzzleID != coll.Puzzles[i].ID {
			t.Fatalf("score %d holds %s, want %s", i, ps.PuzzleID, coll.Puzzles[i].ID)
		}
	}
}

func TestRun_Idempotent(t *testing.T) {
	coll := onePuzzle("p1", game.GoGame, []string{"s0", "s1"}, []string{"a", "b"})
	s := solver.NewReplay("test", map[string][]string{"p1": {"a", "b"}})
	r := newTestRunner()

	first := r.Run(context.Background(), coll, s)
	second := r.Run(context.Background(), coll, s)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-running with a deterministic solver changed the result")
	}
}

// flakySolver fails every puzzle on the first pass and solves it afterwards.
type flakySolver struct {
	mu    sync.Mutex
	calls map[string]int
}

func (f *flakySolver) Name() string        { return "flaky" }
func (f *flakySolver) Description() string { return "solves only on the second attempt" }

func (f *flakySolver) Solve(_ context.Context, p *puzzle.Puzzle) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[p.ID]++
	if f.calls[p.ID] < 2 {
		return nil
	}
	out := make([]string, len(p.Solutions))
	copy(out, p.Solutions)
	return out
}

func TestRunPasses_BestScoreAndPassRates(t *testing.T) {
	coll := onePuzzle("p1", game.GoGame, []string{"s0"}, []string{"m"})
	s := &flakySolver{calls: make(map[string]int)}

	res := newTestRunner().RunPasses(context.Background(), coll, s, 1, 2)

	if res.PassResults == nil {
		t.Fatalf("expected pass results")
	}
	if res.PassResults.PassAt1 != 0 || res.PassResults.PassAtN != 1 || res.PassResults.Passes != 2 {
		t.Fatalf("unexpected pass results: %+v", res.PassResults)
	}
	if res.TotalScore != 1 {
		t.Fatalf("best score across passes not kept: %+v", res)
	}
}

func TestRun_ScoreHookSeesEveryPuzzle(t *testing.T) {
	coll := &puzzle.Collection{Name: "hook"}
	for i := 0; i < 5; i++ {
		coll.Puzzles = append(coll.Puzzles, &puzzle.Puzzle{
			ID: fmt.Sprintf("p%d", i), GameType: game.GoGame,
			GameStates: []string{"s"}, Solutions: []string{"m"},
		})
	}
	s := solver.NewReplay("test", nil)

	var mu sync.Mutex
	seen := make(map[int]string)
	r := newTestRunner(WithScoreHook(func(i int, ps PuzzleScore) {
		mu.Lock()
		seen[i] = ps.PuzzleID
		mu.Unlock()
	}))
	r.RunParallel(context.Background(), coll, s, 3)

	if len(seen) != 5 {
		t.Fatalf("hook fired %d times, want 5", len(seen))
	}
	for i, p := range coll.Puzzles {
		if seen[i] != p.ID {
			t.Fatalf("hook index %d got %s, want %s", i, seen[i], p.ID)
		}
	}
}
