package auditlog

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"marketflow/config"
	"marketflow/types"
)

// Store is the append-only JSONL audit log. A single mutex serializes
// appends so concurrent activations never interleave partial lines.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore opens a store at path, or at ACTIVATION_LOG_PATH (falling back to
// the default file) when path is empty. The file is created lazily on first
// append.
func NewStore(path string) *Store {
	if path == "" {
		path = config.GetEnvOrDefault("ACTIVATION_LOG_PATH", config.DefaultActivationLogPath)
	}
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Append writes one activation record as a single JSON line.
func (s *Store) Append(result *types.ActivationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = f.Write(append(b, '\n'))
	return err
}

// ReadLatest scans the log backwards and returns the most recent record for
// entryID. Malformed lines are skipped. Returns nil when no record exists.
func (s *Store) ReadLatest(entryID string) (*types.ActivationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var record types.ActivationResult
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			continue
		}
		if record.EntryID == entryID {
			return &record, nil
		}
	}
	return nil, nil
}
