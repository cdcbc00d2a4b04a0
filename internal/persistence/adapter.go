package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/mmuslimabdulj/neural-galaxy/internal/domain"
)

// Adapter reads and writes one galaxy's snapshot record
type Adapter struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// NewAdapter binds an adapter to the record stored under key
func NewAdapter(kv KV, key string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{kv: kv, key: key, logger: logger}
}

// Key returns the record key
func (a *Adapter) Key() string {
	return a.key
}

// Save overwrites the record with snaps
func (a *Adapter) Save(ctx context.Context, snaps []domain.StarSnapshot) error {
	if snaps == nil {
		snaps = []domain.StarSnapshot{}
	}
	data, err := json.Marshal(snaps)
	if err != nil {
		return fmt.Errorf("failed to encode snapshots: %w", err)
	}
	return a.kv.Set(ctx, a.key, string(data))
}

// Load returns the saved snapshots. A missing record is empty. A malformed record is logged
// and also treated as empty so a bad write cannot poison startup.
func (a *Adapter) Load(ctx context.Context) ([]domain.StarSnapshot, error) {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return []domain.StarSnapshot{}, nil
	}

	var snaps []domain.StarSnapshot
	if err := json.Unmarshal([]byte(raw), &snaps); err != nil {
		a.logger.Warn("Discarding malformed galaxy record",
			zap.String("key", a.key),
			zap.Error(err),
		)
		return []domain.StarSnapshot{}, nil
	}
	if snaps == nil {
		snaps = []domain.StarSnapshot{}
	}
	return snaps, nil
}

// Clear deletes the record
func (a *Adapter) Clear(ctx context.Context) error {
	return a.kv.Delete(ctx, a.key)
}
