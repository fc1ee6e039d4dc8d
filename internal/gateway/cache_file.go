package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"profit-reconciliation/internal/domain"
)

// Timestamp layouts accepted when reading the cache. The zone-less layout
// matches caches written by older tools and is read in local time.
var cacheTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

type cacheDocument struct {
	Data      *domain.CostMap `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// FileCostCache implements usecase.CostCache as a JSON file of the form
// {"data": {...}, "timestamp": "..."}.
type FileCostCache struct {
	path string
}

// NewFileCostCache creates a cache stored at path.
func NewFileCostCache(path string) *FileCostCache {
	return &FileCostCache{path: path}
}

// Read loads the cached snapshot. A missing or corrupt file is an error the
// caller treats as a cache miss.
func (c *FileCostCache) Read(ctx context.Context) (*domain.CostSnapshot, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cost cache %s: %w", c.path, err)
	}

	var doc cacheDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode cost cache %s: %w", c.path, err)
	}
	ts, err := parseCacheTimestamp(doc.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("cost cache %s: %w", c.path, err)
	}
	if doc.Data == nil {
		doc.Data = domain.NewCostMap()
	}
	return &domain.CostSnapshot{Data: doc.Data, Timestamp: ts}, nil
}

// Write replaces the cache file. The file is written next to its final
// location and renamed into place.
func (c *FileCostCache) Write(ctx context.Context, snapshot domain.CostSnapshot) error {
	data := snapshot.Data
	if data == nil {
		data = domain.NewCostMap()
	}
	raw, err := json.MarshalIndent(cacheDocument{
		Data:      data,
		Timestamp: snapshot.Timestamp.Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cost cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cost cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cost cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace cost cache %s: %w", c.path, err)
	}
	return nil
}

func parseCacheTimestamp(value string) (time.Time, error) {
	for _, layout := range cacheTimestampLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, value); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
