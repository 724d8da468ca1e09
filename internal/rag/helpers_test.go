package rag

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/askfolio/internal/corpus"
	"github.com/xxxsen/askfolio/internal/model"
)

var errEmbed = errors.New("embed failed")

type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   map[string]int
	fail    bool
	model   string
}

func newFakeEmbedder(vectors map[string][]float32) *fakeEmbedder {
	return &fakeEmbedder{vectors: vectors, calls: make(map[string]int), model: "fake-embed"}
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[taskType]++
	if f.fail {
		return nil, errEmbed
	}
	if vec, ok := f.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 0}, nil
}

func (f *fakeEmbedder) ModelName() string {
	return f.model
}

func (f *fakeEmbedder) count(taskType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[taskType]
}

func testProfile() *model.Profile {
	return &model.Profile{
		Identity:   model.Identity{Name: "Ada Lovelace", Headline: "Engineer", Summary: "Builds small tools."},
		Philosophy: "Ship small things often.",
		Projects: []model.Project{
			{Name: "Tide", Tagline: "Tidal charts"},
			{Name: "Lantern", Tagline: "Static site lamp"},
			{Name: "Orbit", Tagline: "Satellite tracker"},
			{Name: "Compass", Tagline: "Trail planner"},
		},
		Skills:  []model.SkillCategory{{Category: "Backend", Items: []string{"Go"}}},
		Contact: model.Contact{Email: "ada@example.com"},
	}
}

func testCorpus(t *testing.T) *corpus.Corpus {
	c, err := corpus.Build(testProfile())
	require.NoError(t, err)
	return c
}

// testVectors assigns a 3-d vector to every chunk of testCorpus.
func testVectors() map[string][]float32 {
	return map[string][]float32{
		"identity":         {0, 0, 1},
		"philosophy":       {0, 0.2, 1},
		"project:tide":     {0.9, 0.1, 0},
		"project:lantern":  {0.8, 0.6, 0},
		"project:orbit":    {0.5, 0.5, 0.7},
		"project:compass":  {0, 1, 0},
		"skills:backend":   {1, 0, 0},
		"contact":          {0, 1, 1},
	}
}

func testFile(vectors map[string][]float32) *EmbeddingFile {
	file := NewEmbeddingFile("fake-embed")
	for id, vec := range vectors {
		file.Embeddings[id] = vec
	}
	file.Dimension = 3
	return file
}

func ids(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Chunk.ID)
	}
	return out
}
