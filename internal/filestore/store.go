package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xxxsen/askfolio/internal/config"
)

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

var (
	ErrNotFound   = errors.New("file not found")
	ErrInvalidKey = errors.New("invalid file key")
)

// Store persists small artifacts such as the precomputed embeddings file.
// Keys are flat names; nested paths are rejected.
type Store interface {
	Save(ctx context.Context, key string, r io.ReadSeeker, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type Factory func(args interface{}) (Store, error)

var factories = map[string]Factory{}

// Register is meant to be called from init.
func Register(typ string, factory Factory) {
	factories[strings.ToLower(strings.TrimSpace(typ))] = factory
}

func New(cfg config.FileStoreConfig) (Store, error) {
	typ := strings.ToLower(strings.TrimSpace(cfg.Type))
	factory, ok := factories[typ]
	if !ok || factory == nil {
		return nil, fmt.Errorf("unsupported embedding store type %q", cfg.Type)
	}
	return factory(cfg.Data)
}

func ReadAll(ctx context.Context, s Store, key string) ([]byte, error) {
	rc, err := s.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func WriteAll(ctx context.Context, s Store, key string, data []byte) error {
	return s.Save(ctx, key, bytes.NewReader(data), int64(len(data)))
}

func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return fmt.Errorf("store config is required")
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode store config: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode store config: %w", err)
	}
	return nil
}
