package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const tuiStateFileName = "tui_state.json"

// TUIState stores small, user-facing UI state restored on relaunch.
//
// It is best effort: callers should tolerate missing or invalid data.
type TUIState struct {
	Version int `json:"version"`

	// PageSize is the last rows-per-page choice; nil means never chosen.
	PageSize *int `json:"pageSize,omitempty"`
}

func tuiStatePath(dir string) string {
	return filepath.Join(dir, tuiStateFileName)
}

// LoadTUIState reads the state file from dir. Missing or corrupted files yield the default.
func LoadTUIState(dir string) (*TUIState, error) {
	if strings.TrimSpace(dir) == "" {
		return &TUIState{Version: 1}, nil
	}
	b, err := os.ReadFile(tuiStatePath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &TUIState{Version: 1}, nil
		}
		return nil, err
	}
	var st TUIState
	if err := json.Unmarshal(b, &st); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &TUIState{Version: 1}, nil
	}
	if st.Version == 0 {
		st.Version = 1
	}
	return &st, nil
}

// SaveTUIState writes st into dir via a temp file and rename.
func SaveTUIState(dir string, st *TUIState) error {
	if st == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if st.Version == 0 {
		st.Version = 1
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	path := tuiStatePath(dir)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
