package puzzle

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/homorunner/ASG-benchmark/internal/obslog"
)

// LoadFile reads and validates a puzzle collection from a JSON file.
func LoadFile(path string) (*Collection, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read puzzle file: %w", err)
	}
	var c Collection
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse puzzle file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if dups := c.DuplicateIDs(); len(dups) > 0 {
		obslog.L().Warn("duplicate puzzle ids in collection",
			zap.String("collection", c.Name), zap.Strings("ids", dups))
	}
	return &c, nil
}

// SaveFile writes a collection as indented JSON.
func SaveFile(path string, c *Collection) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write puzzle file: %w", err)
	}
	return nil
}
