package results

import (
	"fmt"
	"strings"
	"time"
)

// Folder is one remote folder registered for syncing into this store.
type Folder struct {
	Folder  string `db:"folder"`
	Enabled bool   `db:"enabled"`
	AddedAt string `db:"added_at"`
	Note    string `db:"note"`
}

// Folders lists registered sync folders, optionally only enabled ones.
func (s *Store) Folders(enabledOnly bool) ([]Folder, error) {
	q := "SELECT folder, enabled, added_at, note FROM sync_folders"
	if enabledOnly {
		q += " WHERE enabled = 1"
	}
	q += " ORDER BY folder"

	var folders []Folder
	if err := s.db.Select(&folders, q); err != nil {
		return nil, fmt.Errorf("list sync folders: %w", err)
	}
	return folders, nil
}

// AddFolder registers a remote folder for syncing, re-enabling it if it was
// previously disabled.
func (s *Store) AddFolder(folder, note string) error {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return fmt.Errorf("add sync folder: empty path")
	}

	_, err := s.db.Exec(
		`INSERT INTO sync_folders (folder, enabled, added_at, note) VALUES (?, 1, ?, ?)
		 ON CONFLICT(folder) DO UPDATE SET enabled = 1`,
		folder, time.Now().UTC().Format(time.RFC3339), note)
	if err != nil {
		return fmt.Errorf("add sync folder %q: %w", folder, err)
	}
	return nil
}

// RemoveFolder unregisters a remote folder.
func (s *Store) RemoveFolder(folder string) error {
	folder = strings.Trim(folder, "/")
	if _, err := s.db.Exec("DELETE FROM sync_folders WHERE folder = ?", folder); err != nil {
		return fmt.Errorf("remove sync folder %q: %w", folder, err)
	}
	return nil
}

// SetFolderEnabled toggles whether a registered folder participates in
// whole-store syncs.
func (s *Store) SetFolderEnabled(folder string, enabled bool) error {
	folder = strings.Trim(folder, "/")
	res, err := s.db.Exec("UPDATE sync_folders SET enabled = ? WHERE folder = ?", enabled, folder)
	if err != nil {
		return fmt.Errorf("set sync folder %q enabled=%t: %w", folder, enabled, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set sync folder %q: not registered", folder)
	}
	return nil
}
