package puzzle

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/homorunner/ASG-benchmark/internal/game"
)

var (
	ErrMissingID    = errors.New("puzzle id is required")
	ErrStepMismatch = errors.New("game_states and solutions must have the same length")
)

// Goal is reporting metadata carried with a puzzle. Scoring never branches
// on it. The JSON form is either a bare string ("FindBestMove") or a
// single-key object with an optional detail payload
// ({"FindBestMove": null}, {"ReachOutcome": "draw"}).
type Goal struct {
	Kind   string
	Detail string
}

const (
	GoalFindBestMove = "FindBestMove"
	GoalAvoidLosing  = "AvoidLosing"
)

func (g Goal) String() string {
	if g.Detail != "" {
		return g.Kind + ": " + g.Detail
	}
	return g.Kind
}

func (g Goal) MarshalJSON() ([]byte, error) {
	if g.Kind == "" {
		return []byte("null"), nil
	}
	var detail any
	if g.Detail != "" {
		detail = g.Detail
	}
	return json.Marshal(map[string]any{g.Kind: detail})
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		g.Kind, g.Detail = s, ""
		return nil
	}
	var m map[string]*string
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("goal must be a string or a single-key object: %w", err)
	}
	for k, v := range m {
		g.Kind = k
		if v != nil {
			g.Detail = *v
		}
		return nil
	}
	*g = Goal{}
	return nil
}

// Puzzle is a single scoreable challenge: board states paired one-to-one
// with expected moves. Values are immutable once loaded.
type Puzzle struct {
	ID          string    `json:"id"`
	GameType    game.Type `json:"game_type"`
	Description string    `json:"description"`
	Goal        Goal      `json:"goal"`
	GameStates  []string  `json:"game_states"`
	Solutions   []string  `json:"solutions"`
}

// Steps returns the number of scoreable steps.
func (p *Puzzle) Steps() int { return len(p.Solutions) }

// Validate checks the structural invariant. Malformed puzzles are rejected
// at load time and never reach the evaluation engine.
func (p *Puzzle) Validate() error {
	if p.ID == "" {
		return ErrMissingID
	}
	if len(p.GameStates) != len(p.Solutions) {
		return fmt.Errorf("puzzle %s: %w (%d states, %d solutions)",
			p.ID, ErrStepMismatch, len(p.GameStates), len(p.Solutions))
	}
	return nil
}

// Collection groups puzzles under a name. Puzzle order is preserved and
// meaningful: reports follow it.
type Collection struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Puzzles     []*Puzzle `json:"puzzles"`
}

func (c *Collection) Validate() error {
	for _, p := range c.Puzzles {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DuplicateIDs reports ids that appear more than once, in first-seen order.
// Duplicates are flagged for visibility, not rejected.
func (c *Collection) DuplicateIDs() []string {
	seen := make(map[string]int, len(c.Puzzles))
	var dups []string
	for _, p := range c.Puzzles {
		seen[p.ID]++
		if seen[p.ID] == 2 {
			dups = append(dups, p.ID)
		}
	}
	return dups
}

// FilterByGameType returns the puzzles of one game kind, in input order.
func (c *Collection) FilterByGameType(t game.Type) []*Puzzle {
	var out []*Puzzle
	for _, p := range c.Puzzles {
		if p.GameType == t {
			out = append(out, p)
		}
	}
	return out
}
