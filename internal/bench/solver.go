package bench

import (
	"context"

	"github.com/homorunner/ASG-benchmark/internal/puzzle"
)

// Solver produces candidate moves for a puzzle, one per step, in step order.
// It is called once per puzzle and may return fewer moves than the puzzle
// has steps (or none at all); a missing move is scored as a miss, never as
// an error. Implementations must not mutate the puzzle.
type Solver interface {
	Name() string
	Description() string
	Solve(ctx context.Context, p *puzzle.Puzzle) []string
}
