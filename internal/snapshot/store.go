package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the on-disk reference-image store, keyed by snapshot
// identifier. Baselines are append-only from the verifier's point of view:
// a baseline is written once on first run and only replaced through
// Approve (or an update run).
type Store struct {
	BaselineDir string
	ReceivedDir string
}

// NewStore creates a Store rooted at the given directories.
func NewStore(baselineDir, receivedDir string) *Store {
	return &Store{BaselineDir: baselineDir, ReceivedDir: receivedDir}
}

func (s *Store) baselinePath(id string) string {
	return filepath.Join(s.BaselineDir, id+".png")
}

func (s *Store) receivedPath(id string) string {
	return filepath.Join(s.ReceivedDir, id+".png")
}

// Baseline returns the stored reference image for id, or ok=false when no
// reference exists yet.
func (s *Store) Baseline(id string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.baselinePath(id))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read baseline %s: %w", id, err)
	}
	return data, true, nil
}

// WriteBaseline stores image as the reference for id. First-run
// write-then-verify semantics: the caller treats this as a pass.
func (s *Store) WriteBaseline(id string, image []byte) error {
	if err := os.MkdirAll(s.BaselineDir, 0755); err != nil {
		return fmt.Errorf("create baseline dir: %w", err)
	}
	if err := os.WriteFile(s.baselinePath(id), image, 0644); err != nil {
		return fmt.Errorf("write baseline %s: %w", id, err)
	}
	return nil
}

// WriteReceived stores a mismatching capture for human triage.
func (s *Store) WriteReceived(id string, image []byte) error {
	if err := os.MkdirAll(s.ReceivedDir, 0755); err != nil {
		return fmt.Errorf("create received dir: %w", err)
	}
	if err := os.WriteFile(s.receivedPath(id), image, 0644); err != nil {
		return fmt.Errorf("write received %s: %w", id, err)
	}
	return nil
}

// Approve promotes every received image to a baseline and removes it from
// the received directory. Returns the promoted identifiers.
func (s *Store) Approve() ([]string, error) {
	entries, err := os.ReadDir(s.ReceivedDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read received dir: %w", err)
	}

	var promoted []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".png")
		data, err := os.ReadFile(s.receivedPath(id))
		if err != nil {
			return promoted, fmt.Errorf("read received %s: %w", id, err)
		}
		if err := s.WriteBaseline(id, data); err != nil {
			return promoted, err
		}
		if err := os.Remove(s.receivedPath(id)); err != nil {
			return promoted, fmt.Errorf("remove received %s: %w", id, err)
		}
		promoted = append(promoted, id)
	}
	return promoted, nil
}
