package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/finsight/finsight/internal/core"
)

// LocalFS implements Store on the local filesystem, one JSON file per
// snapshot under <base>/<symbol>/.
type LocalFS struct {
	basePath string
}

// NewLocalFS creates a new LocalFS store
func NewLocalFS(basePath string) (*LocalFS, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating base path: %w", err)
	}
	return &LocalFS{basePath: basePath}, nil
}

func (l *LocalFS) PutSnapshot(ctx context.Context, data *core.StockData) (string, error) {
	if data == nil || data.Symbol == "" {
		return "", fmt.Errorf("snapshot requires a symbol")
	}
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	key := snapshotKey(data)
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("creating directories: %w", err)
	}
	if err := os.WriteFile(fullPath, payload, 0644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return key, nil
}

func (l *LocalFS) GetSnapshot(ctx context.Context, key string) (*core.StockData, error) {
	payload, err := os.ReadFile(filepath.Join(l.basePath, filepath.FromSlash(key)))
	if err != nil {
		return nil, err
	}
	var data core.StockData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", key, err)
	}
	return &data, nil
}

func (l *LocalFS) ListSnapshots(ctx context.Context, symbol string) ([]string, error) {
	dir := filepath.Join(l.basePath, symbol)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		keys = append(keys, symbol+"/"+e.Name())
	}
	sort.Strings(keys)
	return keys, nil
}
