package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/homorunner/ASG-benchmark/internal/game"
	"github.com/homorunner/ASG-benchmark/internal/puzzle"
)

// Runner evaluates a puzzle collection against a solver. It holds no state
// across runs; every Run call builds a fresh Result and never mutates the
// collection.
type Runner struct {
	catalog *game.Catalog
	logger  *zap.Logger
	onScore func(index int, score PuzzleScore)
	now     func() time.Time
}

type Option func(*Runner)

// WithLogger sets the logger used for per-puzzle progress.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithScoreHook registers a callback invoked as each puzzle finishes.
// During parallel runs the hook is called from worker goroutines.
func WithScoreHook(hook func(index int, score PuzzleScore)) Option {
	return func(r *Runner) { r.onScore = hook }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRunner(catalog *game.Catalog, opts ...Option) *Runner {
	r := &Runner{
		catalog: catalog,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	if r.catalog == nil {
		r.catalog = game.NewCatalog()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates every puzzle in input order on the calling goroutine.
func (r *Runner) Run(ctx context.Context, coll *puzzle.Collection, solver Solver) *Result {
	scores := make([]PuzzleScore, len(coll.Puzzles))
	for i, p := range coll.Puzzles {
		scores[i] = r.scorePuzzle(ctx, solver, p)
		r.emit(i, scores[i])
	}
	return r.aggregate(coll, solver, scores, "")
}

// RunParallel evaluates puzzles on a fixed pool of workers. Puzzles share
// no state, so only the result placement matters: each score is written to
// its input index, keeping the output order deterministic.
func (r *Runner) RunParallel(ctx context.Context, coll *puzzle.Collection, solver Solver, workers int) *Result {
	if workers <= 1 || len(coll.Puzzles) <= 1 {
		return r.Run(ctx, coll, solver)
	}
	if workers > len(coll.Puzzles) {
		workers = len(coll.Puzzles)
	}

	scores := make([]PuzzleScore, len(coll.Puzzles))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				scores[i] = r.scorePuzzle(ctx, solver, coll.Puzzles[i])
				r.emit(i, scores[i])
			}
		}()
	}
	for i := range coll.Puzzles {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return r.aggregate(coll, solver, scores, " (parallel)")
}

// RunPasses runs the benchmark `passes` times and keeps the best score per
// puzzle. PassResults reports the fraction of puzzles fully solved on the
// first pass (pass@1) and on any pass (pass@n).
func (r *Runner) RunPasses(ctx context.Context, coll *puzzle.Collection, solver Solver, workers, passes int) *Result {
	if passes <= 1 {
		return r.RunParallel(ctx, coll, solver, workers)
	}

	best := make([]PuzzleScore, 0, len(coll.Puzzles))
	solvedFirst := 0
	solvedAny := make([]bool, len(coll.Puzzles))

	for pass := 0; pass < passes; pass++ {
		res := r.RunParallel(ctx, coll, solver, workers)
		if pass == 0 {
			best = append(best, res.PuzzleScores...)
			for _, s := range res.PuzzleScores {
				if s.SolvedFully {
					solvedFirst++
				}
			}
		}
		for i, s := range res.PuzzleScores {
			if s.Score > best[i].Score {
				best[i] = s
			}
			if s.SolvedFully {
				solvedAny[i] = true
			}
		}
		r.logger.Info("benchmark pass finished",
			zap.Int("pass", pass+1), zap.Int("passes", passes),
			zap.Float64("total_score", res.TotalScore))
	}

	out := r.aggregate(coll, solver, best, fmt.Sprintf(" (%d passes)", passes))
	solvedN := 0
	for _, ok := range solvedAny {
		if ok {
			solvedN++
		}
	}
	pr := &PassResults{Passes: passes}
	if n := len(coll.Puzzles); n > 0 {
		pr.PassAt1 = float64(solvedFirst) / float64(n)
		pr.PassAtN = float64(solvedN) / float64(n)
	}
	out.PassResults = pr
	return out
}

// scorePuzzle drives one puzzle through its steps: the solver is asked once
// for the whole move sequence, then each candidate is checked in order and
// evaluation stops at the first miss. A correct answer after a miss earns
// nothing.
func (r *Runner) scorePuzzle(ctx context.Context, solver Solver, p *puzzle.Puzzle) PuzzleScore {
	candidates := solver.Solve(ctx, p)

	steps := 0
	for i, expected := range p.Solutions {
		if i >= len(candidates) || i >= len(p.GameStates) {
			break
		}
		if !r.catalog.Matches(p.GameType, p.GameStates[i], candidates[i], expected) {
			break
		}
		steps++
	}

	score := PuzzleScore{
		PuzzleID:    p.ID,
		GameType:    p.GameType,
		StepsSolved: steps,
		MaxSteps:    p.Steps(),
		Score:       float64(steps),
		SolvedFully: steps == p.Steps(),
	}
	r.logger.Debug("puzzle scored",
		zap.String("puzzle", p.ID), zap.String("game_type", string(p.GameType)),
		zap.Int("steps_solved", steps), zap.Int("max_steps", score.MaxSteps))
	return score
}

func (r *Runner) emit(index int, score PuzzleScore) {
	if r.onScore != nil {
		r.onScore(index, score)
	}
}

func (r *Runner) aggregate(coll *puzzle.Collection, solver Solver, scores []PuzzleScore, suffix string) *Result {
	res := &Result{
		BenchmarkName:     fmt.Sprintf("%s on %s%s", solver.Name(), coll.Name, suffix),
		SolverName:        solver.Name(),
		SolverDescription: solver.Description(),
		TotalPuzzles:      len(scores),
		PuzzleScores:      scores,
		GameTypeBreakdown: []GameTypeBreakdown{},
		Timestamp:         r.now().UTC().Format(time.RFC3339),
	}

	byType := make(map[game.Type]int)
	for _, s := range scores {
		res.TotalScore += s.Score
		res.MaxPossibleScore += float64(s.MaxSteps)

		idx, ok := byType[s.GameType]
		if !ok {
			idx = len(res.GameTypeBreakdown)
			byType[s.GameType] = idx
			res.GameTypeBreakdown = append(res.GameTypeBreakdown, GameTypeBreakdown{GameType: s.GameType})
		}
		entry := &res.GameTypeBreakdown[idx]
		entry.Count++
		entry.Score += s.Score
		entry.MaxScore += float64(s.MaxSteps)
	}

	if len(scores) > 0 {
		res.AverageScore = res.TotalScore / float64(len(scores))
	}
	return res
}
