// Package benchdto holds the wire types the benchmark exposes to external
// consumers, such as live progress listeners.
package benchdto

// ScoreEvent is broadcast once per finished puzzle during a run.
type ScoreEvent struct {
	Index       int     `json:"index"`
	PuzzleID    string  `json:"puzzle_id"`
	GameType    string  `json:"game_type"`
	StepsSolved int     `json:"steps_solved"`
	MaxSteps    int     `json:"max_steps"`
	Score       float64 `json:"score"`
	SolvedFully bool    `json:"solved_fully"`
}
