package archive

import (
	"context"

	"github.com/finsight/finsight/internal/core"
)

// Store persists canonical StockData snapshots. One snapshot is written
// per fetch cycle; snapshots are immutable once written.
type Store interface {
	// PutSnapshot stores one record and returns its storage key.
	PutSnapshot(ctx context.Context, data *core.StockData) (string, error)

	// GetSnapshot retrieves a record by its storage key.
	GetSnapshot(ctx context.Context, key string) (*core.StockData, error)

	// ListSnapshots returns the stored keys for a symbol, oldest first.
	ListSnapshots(ctx context.Context, symbol string) ([]string, error)
}

// snapshotKey builds the per-symbol storage key. FetchedAt is ISO-8601;
// the colon-free form keeps keys portable across filesystems.
func snapshotKey(data *core.StockData) string {
	ts := data.FetchedAt
	if ts == "" {
		ts = "unknown"
	}
	clean := make([]rune, 0, len(ts))
	for _, r := range ts {
		if r == ':' {
			r = '-'
		}
		clean = append(clean, r)
	}
	return data.Symbol + "/" + string(clean) + ".json"
}
