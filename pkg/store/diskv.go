package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"
)

// Load creates a Persistence backed by diskv using the provided config. Each
// record is one file directly under the base path.
func Load(cfg Config, log *zap.Logger) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	d := diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		CacheSizeMax: 0, // other processes write the same records
		TempDir:      filepath.Join(basePath, ".tmp"),
	})
	if log == nil {
		log = zap.NewNop()
	}
	return newPersistence(&diskBackend{d: d, basePath: basePath, log: log.Named("store")}, log), nil
}

func flatTransform(string) []string {
	return []string{}
}

type diskBackend struct {
	d        *diskv.Diskv
	basePath string
	log      *zap.Logger
}

func (b *diskBackend) read(key string) ([]byte, error) {
	return b.d.Read(key)
}

func (b *diskBackend) write(key string, val []byte) error {
	return b.d.Write(key, val)
}

func (b *diskBackend) erase(key string) error {
	return b.d.Erase(key)
}
