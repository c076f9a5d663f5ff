package game

import "sync"

// Type identifies which move-comparison rules apply to a puzzle.
// Unknown values are valid: they resolve to the exact-match fallback.
type Type string

const (
	Chess    Type = "chess"
	GoGame   Type = "go"
	Xiangqi  Type = "xiangqi"
	Quoridor Type = "quoridor"
)

// Rules decides whether a candidate move matches the expected move in the
// context of a board state. Implementations must be pure functions of their
// inputs; the board state and both moves are opaque strings whose notation is
// defined by the game kind.
type Rules interface {
	Matches(state, candidate, expected string) bool
}

// RulesFunc adapts a plain function to Rules.
type RulesFunc func(state, candidate, expected string) bool

func (f RulesFunc) Matches(state, candidate, expected string) bool {
	return f(state, candidate, expected)
}

// ExactMatch is the fallback policy: case-sensitive string equality.
var ExactMatch = RulesFunc(func(_, candidate, expected string) bool {
	return candidate == expected
})

// Catalog maps game types to their move-comparison rules. Types without a
// registered entry fall back to ExactMatch, so an unrecognized game type
// never aborts a benchmark run.
type Catalog struct {
	mu    sync.RWMutex
	rules map[Type]Rules
}

// NewCatalog returns a catalog with the built-in rules registered.
func NewCatalog() *Catalog {
	c := &Catalog{rules: make(map[Type]Rules)}
	c.Register(Chess, chessRules{})
	return c
}

// Register installs rules for a game type, replacing any previous entry.
func (c *Catalog) Register(t Type, r Rules) {
	if r == nil {
		return
	}
	c.mu.Lock()
	c.rules[t] = r
	c.mu.Unlock()
}

// Rules returns the registered rules for t, or ExactMatch.
func (c *Catalog) Rules(t Type) Rules {
	c.mu.RLock()
	r, ok := c.rules[t]
	c.mu.RUnlock()
	if !ok {
		return ExactMatch
	}
	return r
}

func (c *Catalog) Matches(t Type, state, candidate, expected string) bool {
	return c.Rules(t).Matches(state, candidate, expected)
}
