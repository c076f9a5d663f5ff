package game

import (
	"strings"

	nchess "github.com/corentings/chess/v2"
)

// chessRules compares chess moves semantically: both strings are decoded
// against the FEN board state (UCI first, then SAN), so "e2e4" and "e4"
// count as the same move. Anything that fails to decode is a mismatch
// unless the raw strings are already equal.
type chessRules struct{}

func (chessRules) Matches(state, candidate, expected string) bool {
	candidate = strings.TrimSpace(candidate)
	expected = strings.TrimSpace(expected)
	if candidate == expected {
		return candidate != ""
	}

	pos, ok := positionFromFEN(state)
	if !ok {
		// Unparseable state leaves only the string comparison above.
		return false
	}
	cm := decodeMove(pos, candidate)
	em := decodeMove(pos, expected)
	if cm == nil || em == nil {
		return false
	}
	return cm.S1() == em.S1() && cm.S2() == em.S2() && cm.Promo() == em.Promo()
}

func positionFromFEN(fen string) (*nchess.Position, bool) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, false
	}
	g := nchess.NewGame(opt)
	if g == nil || g.Position() == nil {
		return nil, false
	}
	return g.Position(), true
}

func decodeMove(pos *nchess.Position, text string) *nchess.Move {
	if text == "" {
		return nil
	}
	if mv, err := (nchess.UCINotation{}).Decode(pos, strings.ToLower(text)); err == nil {
		return mv
	}
	if mv, err := (nchess.AlgebraicNotation{}).Decode(pos, text); err == nil {
		return mv
	}
	return nil
}
