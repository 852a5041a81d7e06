package bga

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SaveStatsFile writes a PlayerStats snapshot as indented JSON, creating the
// player's stats directory when needed.
func SaveStatsFile(path string, stats PlayerStats) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadStatsFile reads a snapshot back. A malformed file is a ParseError for
// that document, not a run abort.
func LoadStatsFile(path string) (PlayerStats, error) {
	var out PlayerStats
	data, err := os.ReadFile(path)
	if err != nil {
		return out, NewParseError(filepath.Base(path), "", "", "unreadable stats file: %v", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, NewParseError(filepath.Base(path), "", "", "malformed stats file: %v", err)
	}
	return out, nil
}
