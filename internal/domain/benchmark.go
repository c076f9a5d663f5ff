package domain

import "time"

// BenchmarkRun is a persisted record of one benchmark execution.
type BenchmarkRun struct {
	ID               int64
	RunUUID          string
	BenchmarkName    string
	CollectionName   string
	SolverName       string
	Model            string
	TotalPuzzles     int
	TotalScore       float64
	MaxPossibleScore float64
	AverageScore     float64
	Passes           int
	PassAt1          float64
	PassAtN          float64
	ResultJSON       string
	StartedAt        time.Time
	FinishedAt       time.Time
	Duration         time.Duration
}
