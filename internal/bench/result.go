package bench

import "github.com/homorunner/ASG-benchmark/internal/game"

// PuzzleScore is the outcome of evaluating one puzzle: the number of
// consecutive correct steps from the start, before the first miss.
type PuzzleScore struct {
	PuzzleID    string    `json:"puzzle_id"`
	GameType    game.Type `json:"game_type"`
	StepsSolved int       `json:"steps_solved"`
	MaxSteps    int       `json:"max_steps"`
	Score       float64   `json:"score"`
	SolvedFully bool      `json:"solved_fully"`
}

// GameTypeBreakdown sums scores for one game kind. Entries appear in order
// of the kind's first appearance in the puzzle sequence.
type GameTypeBreakdown struct {
	GameType game.Type `json:"game_type"`
	Count    int       `json:"count"`
	Score    float64   `json:"score"`
	MaxScore float64   `json:"max_score"`
}

// PassResults reports solve rates over repeated runs of the same collection.
type PassResults struct {
	PassAt1 float64 `json:"pass_at_1"`
	PassAtN float64 `json:"pass_at_n"`
	Passes  int     `json:"passes"`
}

// Result is the aggregate outcome of one benchmark run. PuzzleScores follow
// collection input order.
type Result struct {
	BenchmarkName     string              `json:"benchmark_name"`
	SolverName        string              `json:"solver_name"`
	SolverDescription string              `json:"solver_description"`
	TotalPuzzles      int                 `json:"total_puzzles"`
	TotalScore        float64             `json:"total_score"`
	MaxPossibleScore  float64             `json:"max_possible_score"`
	AverageScore      float64             `json:"average_score"`
	GameTypeBreakdown []GameTypeBreakdown `json:"game_type_breakdown"`
	PuzzleScores      []PuzzleScore       `json:"puzzle_scores"`
	PassResults       *PassResults        `json:"pass_results,omitempty"`
	Timestamp         string              `json:"timestamp"`
}
