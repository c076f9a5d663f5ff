package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/homorunner/ASG-benchmark/internal/game"
	"github.com/homorunner/ASG-benchmark/internal/puzzle"
)

// Builds a mate-in-1 puzzle collection from the lichess puzzle database
// export. Each CSV row stores the position before the opponent's last move,
// so the first move is applied to reach the state the solver actually sees.

type rawPuzzle struct {
	rating  float64
	fen     string
	moves   []string
	gameURL string
}

func main() {
	var (
		csvPath = flag.String("csv", "database/lichess_db_puzzle.csv", "lichess puzzle database CSV")
		outPath = flag.String("out", "lichess_mate_in_1_puzzles.json", "output collection file")
		count   = flag.Int("count", 10, "number of puzzles to keep (hardest first)")
		theme   = flag.String("theme", "mateIn1", "lichess theme tag to filter on")
	)
	flag.Parse()

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	candidates, err := readPuzzles(f, *theme)
	if err != nil {
		log.Fatalf("read csv: %v", err)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].rating > candidates[j].rating })
	if len(candidates) > *count {
		candidates = candidates[:*count]
	}

	coll := &puzzle.Collection{
		Name:        "Lichess Mate-in-1 Puzzles Collection",
		Description: "A collection of mate-in-1 chess puzzles extracted from the lichess database",
	}
	for i, raw := range candidates {
		p, err := buildPuzzle(raw, i+1)
		if err != nil {
			log.Printf("skip puzzle %d (%s): %v", i+1, raw.gameURL, err)
			continue
		}
		coll.Puzzles = append(coll.Puzzles, p)
	}

	if err := coll.Validate(); err != nil {
		log.Fatalf("generated collection invalid: %v", err)
	}
	if err := puzzle.SaveFile(*outPath, coll); err != nil {
		log.Fatalf("write collection: %v", err)
	}
	fmt.Printf("Successfully generated %s\n", *outPath)
	fmt.Printf("Generated %d puzzles\n", len(coll.Puzzles))
}

// readPuzzles filters the lichess CSV (PuzzleId,FEN,Moves,Rating,...,Themes,GameUrl)
// down to rows carrying the wanted theme.
func readPuzzles(r io.Reader, theme string) ([]rawPuzzle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var out []rawPuzzle
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			// header row
			first = false
			continue
		}
		if len(record) < 9 {
			continue
		}
		rating, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			continue
		}
		if !strings.Contains(record[7], theme) {
			continue
		}
		out = append(out, rawPuzzle{
			rating:  rating,
			fen:     record[1],
			moves:   strings.Fields(record[2]),
			gameURL: record[8],
		})
	}
	return out, nil
}

func buildPuzzle(raw rawPuzzle, seq int) (*puzzle.Puzzle, error) {
	if len(raw.moves) < 2 {
		return nil, fmt.Errorf("expected at least two moves, got %d", len(raw.moves))
	}

	opt, err := nchess.FEN(raw.fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen: %w", err)
	}
	g := nchess.NewGame(opt)
	if err := g.PushNotationMove(raw.moves[0], nchess.UCINotation{}, nil); err != nil {
		return nil, fmt.Errorf("apply setup move %s: %w", raw.moves[0], err)
	}

	return &puzzle.Puzzle{
		ID:          fmt.Sprintf("chess_mate_in_1_%02d", seq),
		GameType:    game.Chess,
		Description: fmt.Sprintf("Chess puzzle from %s", raw.gameURL),
		Goal:        puzzle.Goal{Kind: puzzle.GoalFindBestMove, Detail: "checkmate in one move"},
		GameStates:  []string{g.FEN()},
		Solutions:   []string{raw.moves[1]},
	}, nil
}
