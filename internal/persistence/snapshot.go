package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-admin/internal/config"
)

// ErrNoSnapshot indicates the slot holds no persisted state yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// SnapshotStore persists the full store state as one opaque blob per named
// slot, mirroring the single key-value slot the browser client used.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}

// NewSnapshotStore builds the driver selected by configuration.
func NewSnapshotStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (SnapshotStore, error) {
	switch cfg.Snapshot.Driver {
	case config.SnapshotDriverFile:
		return NewFileSnapshotStore(cfg.Snapshot.FilePath), nil
	case config.SnapshotDriverRedis:
		redis := NewRedis(cfg.Redis, logger)
		return NewRedisSnapshotStore(redis, cfg.Snapshot.Slot), nil
	case config.SnapshotDriverPostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		return NewPostgresSnapshotStore(ctx, pg, cfg.Snapshot.Slot)
	default:
		return nil, fmt.Errorf("unknown snapshot driver: %s", cfg.Snapshot.Driver)
	}
}

// FileSnapshotStore keeps the snapshot in a single JSON file on disk.
type FileSnapshotStore struct {
	path string
}

// NewFileSnapshotStore builds a file-backed snapshot store.
func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path}
}

// Load reads the snapshot file.
func (s *FileSnapshotStore) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	return data, nil
}

// Save writes the snapshot via a temp file rename so a crash mid-write
// never leaves a torn snapshot behind.
func (s *FileSnapshotStore) Save(_ context.Context, data []byte) error {
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the snapshot file.
func (s *FileSnapshotStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
