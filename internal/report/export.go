package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/homorunner/ASG-benchmark/internal/bench"
)

// WriteJSON serializes a benchmark result to an indented JSON file.
func WriteJSON(path string, res *bench.Result) error {
	if res == nil {
		return fmt.Errorf("nil benchmark result")
	}
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}
