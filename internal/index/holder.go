package index

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/futig/fund-faq/internal/catalog"
	"github.com/futig/fund-faq/internal/entity"
	"go.uber.org/zap"
)

// Holder serves searches from the current snapshot and swaps in new ones atomically
type Holder struct {
	path    string
	model   string
	current atomic.Pointer[MemoryIndex]
	// serialises reloads, readers never take it
	reloadMu sync.Mutex
	logger   *zap.Logger
}

// OpenHolder loads the snapshot at path. A missing, unreadable or mismatched
// snapshot is returned as an error and the service must not start.
func OpenHolder(path, embeddingModel string, logger *zap.Logger) (*Holder, error) {
	h := &Holder{
		path:   filepath.Clean(path),
		model:  embeddingModel,
		logger: logger,
	}
	if _, err := h.Reload(context.Background()); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Holder) Search(ctx context.Context, vector []float32, topK int, schemeFilter string) (entity.RetrievalResult, error) {
	return h.current.Load().Search(ctx, vector, topK, schemeFilter)
}

// Catalog returns the catalog of the snapshot currently served
func (h *Holder) Catalog() *catalog.Catalog {
	return h.current.Load().Catalog()
}

func (h *Holder) Len() int {
	return h.current.Load().Len()
}

// Reload reads the snapshot file again. On failure the old index keeps serving.
func (h *Holder) Reload(_ context.Context) (int, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	snap, err := LoadSnapshot(h.path)
	if err != nil {
		return 0, err
	}
	idx, err := NewMemoryIndex(snap, h.model)
	if err != nil {
		return 0, fmt.Errorf("load index %s: %w", h.path, err)
	}

	h.current.Store(idx)
	h.logger.Info("vector index loaded",
		zap.String("path", h.path),
		zap.String("embedding_model", idx.EmbeddingModel()),
		zap.Int("chunks", idx.Len()),
		zap.Int("schemes", idx.Catalog().Len()),
	)
	return idx.Len(), nil
}

// Watch reloads the index whenever the snapshot file is replaced. It blocks until ctx is done.
func (h *Holder) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create index watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory, renames replace the file inode
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(h.path), err)
	}
	h.logger.Info("watching vector index for changes", zap.String("path", h.path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != h.path || !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if _, err := h.Reload(ctx); err != nil {
				h.logger.Error("index reload failed, keeping previous index", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			h.logger.Warn("index watcher error", zap.Error(err))
		}
	}
}
