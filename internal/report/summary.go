package report

import (
	"fmt"
	"strings"

	"github.com/homorunner/ASG-benchmark/internal/bench"
)

// Summary renders a result as the human-readable text block the CLI prints.
func Summary(res *bench.Result) string {
	if res == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString("Benchmark Results:\n")
	fmt.Fprintf(&b, "Benchmark: %s\n", res.BenchmarkName)
	fmt.Fprintf(&b, "Solver: %s - %s\n", res.SolverName, res.SolverDescription)
	fmt.Fprintf(&b, "Total Puzzles: %d\n", res.TotalPuzzles)
	fmt.Fprintf(&b, "Total Score: %g/%g\n", res.TotalScore, res.MaxPossibleScore)
	fmt.Fprintf(&b, "Average Score per Puzzle: %.2f\n", res.AverageScore)

	if pr := res.PassResults; pr != nil {
		b.WriteString("\nPass Results:\n")
		fmt.Fprintf(&b, "  Pass@1: %.2f%%\n", pr.PassAt1*100)
		fmt.Fprintf(&b, "  Pass@%d: %.2f%%\n", pr.Passes, pr.PassAtN*100)
	}

	b.WriteString("\nGame Type Breakdown:\n")
	for _, g := range res.GameTypeBreakdown {
		pct := 0.0
		if g.MaxScore > 0 {
			pct = g.Score / g.MaxScore * 100
		}
		fmt.Fprintf(&b, "  %s: %.2f%% (%d puzzles)\n", g.GameType, pct, g.Count)
	}

	b.WriteString("\nIndividual Puzzle Results:\n")
	for _, s := range res.PuzzleScores {
		status := "FAIL"
		if s.SolvedFully {
			status = "OK"
		}
		fmt.Fprintf(&b, "  [%s] %s: %d/%d\n", status, s.PuzzleID, s.StepsSolved, s.MaxSteps)
	}
	return b.String()
}
