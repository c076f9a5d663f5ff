package game

import "testing"

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestChessRules_NotationEquivalence(t *testing.T) {
	r := chessRules{}

	cases := []struct {
		name      string
		state     string
		candidate string
		expected  string
		want      bool
	}{
		{"identical uci", startFEN, "e2e4", "e2e4", true},
		{"san vs uci", startFEN, "e4", "e2e4", true},
		{"uci vs san", startFEN, "g1f3", "Nf3", true},
		{"uppercase uci", startFEN, "E2E4", "e2e4", true},
		{"different moves", startFEN, "d2d4", "e2e4", false},
		{"illegal candidate", startFEN, "e2e5", "e2e4", false},
		{"garbage candidate", startFEN, "banana", "e2e4", false},
		{"empty candidate", startFEN, "", "e2e4", false},
		{"whitespace around move", startFEN, " e2e4 ", "e2e4", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Matches(tc.state, tc.candidate, tc.expected); got != tc.want {
				t.Fatalf("Matches(%q, %q) = %v, want %v", tc.candidate, tc.expected, got, tc.want)
			}
		})
	}
}

func TestChessRules_Promotion(t *testing.T) {
	r := chessRules{}
	const fen = "8/4P1k1/8/8/8/8/8/4K3 w - - 0 1"

	if !r.Matches(fen, "e7e8q", "e8=Q") {
		t.Fatalf("promotion to queen should match across notations")
	}
	if r.Matches(fen, "e7e8n", "e8=Q") {
		t.Fatalf("promotion piece must be compared")
	}
}

func TestChessRules_BadStateFallsBackToEquality(t *testing.T) {
	r := chessRules{}

	if !r.Matches("not a fen", "e2e4", "e2e4") {
		t.Fatalf("equal strings should match even with an unreadable state")
	}
	if r.Matches("not a fen", "e4", "e2e4") {
		t.Fatalf("no semantic comparison is possible without a state")
	}
}
