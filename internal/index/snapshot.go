package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/futig/fund-faq/internal/entity"
)

const SnapshotVersion = 1

// Snapshot is the on-disk form of a built index
type Snapshot struct {
	Version        int            `json:"version"`
	EmbeddingModel string         `json:"embedding_model"`
	Dimension      int            `json:"dimension"`
	BuiltAt        time.Time      `json:"built_at"`
	Chunks         []entity.Chunk `json:"chunks"`
}

// LoadSnapshot reads a snapshot file. Every failure wraps ErrIndexUnavailable.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read snapshot %s: %w", entity.ErrIndexUnavailable, path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot %s: %w", entity.ErrIndexUnavailable, path, err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, want %d", entity.ErrIndexUnavailable, snap.Version, SnapshotVersion)
	}

	return &snap, nil
}

// WriteSnapshot writes to a temp file in the target directory and renames it into place
func WriteSnapshot(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	enc := json.NewEncoder(tmp)
	if err := enc.Encode(snap); err != nil {
		tmp.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// FilePublisher publishes snapshots to a single file path
type FilePublisher struct {
	path string
}

func NewFilePublisher(path string) *FilePublisher {
	return &FilePublisher{path: path}
}

func (p *FilePublisher) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(p.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat snapshot: %w", err)
}

func (p *FilePublisher) Publish(_ context.Context, snap *Snapshot) error {
	return WriteSnapshot(p.path, snap)
}
