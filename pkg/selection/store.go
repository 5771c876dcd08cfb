package selection

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/seojunpark/axlint/pkg/logging"
)

// Store persists a single Selected value as a small JSON file, normally
// .axlint/local/selection.json. Reads fail open: a missing or malformed
// file reports "no prior selection" instead of an error, so a corrupted
// file can never wedge the tool. The next successful Select simply
// overwrites it.
type Store struct {
	path string
	log  *slog.Logger
}

// NewStore creates a Store backed by the given file path. A nil logger
// discards diagnostics.
func NewStore(path string, log *slog.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{path: path, log: log}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the persisted selection. The second return is false when no
// usable selection exists: file missing, unreadable, or malformed JSON.
// Parse failures are logged at debug level and otherwise ignored.
func (s *Store) Load() (Selected, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Selected{}, false
	}

	var sel Selected
	if err := json.Unmarshal(data, &sel); err != nil {
		s.log.Debug("discarding malformed selection file", "path", s.path, "err", err)
		return Selected{}, false
	}

	if sel.IsZero() {
		return Selected{}, false
	}

	return sel, true
}

// Save overwrites the persisted selection. The write goes through a temp
// file and rename so a crash mid-write cannot leave a torn file behind.
func (s *Store) Save(sel Selected) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("selection: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("selection: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".selection-*.tmp")
	if err != nil {
		return fmt.Errorf("selection: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("selection: write temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("selection: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("selection: rename temp file: %w", err)
	}

	return nil
}
