package indexing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/futig/fund-faq/internal/entity"
)

const datasetPattern = "all_schemes_*.json"

// LoadDataset reads a dataset file. Given a directory it reads the most
// recently written all_schemes_*.json inside it.
func LoadDataset(path string) (*entity.SchemeDataset, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		path, err = latestDataset(path)
		if err != nil {
			return nil, "", err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read dataset: %w", err)
	}

	var ds entity.SchemeDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, "", fmt.Errorf("%w: decode dataset %s: %w", entity.ErrInvalidFormat, path, err)
	}
	if len(ds.Schemes) == 0 {
		return nil, "", fmt.Errorf("%w: %s", entity.ErrEmptyDataset, path)
	}

	return &ds, path, nil
}

func latestDataset(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, datasetPattern))
	if err != nil {
		return "", fmt.Errorf("list datasets: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no %s in %s", entity.ErrEmptyDataset, datasetPattern, dir)
	}

	type candidate struct {
		path    string
		modUnix int64
	}
	cands := make([]candidate, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			return "", fmt.Errorf("stat dataset: %w", err)
		}
		cands = append(cands, candidate{path: m, modUnix: info.ModTime().UnixNano()})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].modUnix != cands[j].modUnix {
			return cands[i].modUnix > cands[j].modUnix
		}
		return cands[i].path > cands[j].path
	})
	return cands[0].path, nil
}
