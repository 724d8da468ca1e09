package rag

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/filestore"
)

// EmbeddingFile is the persisted chunk-embedding lookup.
type EmbeddingFile struct {
	Model      string               `json:"model"`
	Dimension  int                  `json:"dimension"`
	CreatedAt  int64                `json:"created_at"`
	Embeddings map[string][]float32 `json:"embeddings"`
	// Hashes holds the sha256 of the chunk text each vector was computed from.
	Hashes map[string]string `json:"hashes,omitempty"`
}

func NewEmbeddingFile(model string) *EmbeddingFile {
	return &EmbeddingFile{
		Model:      model,
		Embeddings: make(map[string][]float32),
		Hashes:     make(map[string]string),
	}
}

func ReadEmbeddingFile(r io.Reader) (*EmbeddingFile, error) {
	var file EmbeddingFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode embeddings: %w", err)
	}
	if file.Embeddings == nil {
		file.Embeddings = make(map[string][]float32)
	}
	if file.Hashes == nil {
		file.Hashes = make(map[string]string)
	}
	if err := file.validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

func WriteEmbeddingFile(w io.Writer, file *EmbeddingFile) error {
	if err := file.validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	return enc.Encode(file)
}

func (f *EmbeddingFile) validate() error {
	for id, vec := range f.Embeddings {
		if len(vec) == 0 {
			return fmt.Errorf("embedding %s is empty", id)
		}
		if f.Dimension == 0 {
			f.Dimension = len(vec)
		}
		if len(vec) != f.Dimension {
			return fmt.Errorf("embedding %s has dimension %d, want %d", id, len(vec), f.Dimension)
		}
	}
	return nil
}

// LoadEmbeddingFile reads the lookup from the store. A missing file yields an
// empty lookup so every chunk is embedded on demand.
func LoadEmbeddingFile(ctx context.Context, store filestore.Store, key, model string) (*EmbeddingFile, error) {
	raw, err := filestore.ReadAll(ctx, store, key)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			logutil.GetLogger(ctx).Warn("embeddings file not found, chunks will be embedded on demand", zap.String("key", key))
			return NewEmbeddingFile(model), nil
		}
		return nil, fmt.Errorf("open embeddings: %w", err)
	}
	return ReadEmbeddingFile(bytes.NewReader(raw))
}

func SaveEmbeddingFile(ctx context.Context, store filestore.Store, key string, file *EmbeddingFile) error {
	var buf bytes.Buffer
	if err := WriteEmbeddingFile(&buf, file); err != nil {
		return err
	}
	if err := filestore.WriteAll(ctx, store, key, buf.Bytes()); err != nil {
		return fmt.Errorf("save embeddings: %w", err)
	}
	return nil
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
