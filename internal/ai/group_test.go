package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupGeneratorFailover(t *testing.T) {
	first := &countingGenerator{errs: []error{errors.New("quota")}}
	second := &countingGenerator{out: `{"ok":true}`}
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "first", Generator: first},
		{Name: "second", Generator: second},
	})

	res, err := g.Generate(context.Background(), GenerateRequest{Prompt: "p"})
	require.NoError(t, err)
	require.Equal(t, `{"ok":true}`, res)
	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls)
}

func TestGroupGeneratorReturnsLastError(t *testing.T) {
	g := NewGroupGenerator([]GeneratorEntry{
		{Name: "a", Generator: &countingGenerator{errs: []error{errors.New("a failed")}}},
		{Name: "b", Generator: &countingGenerator{errs: []error{errors.New("b failed")}}},
	})
	_, err := g.Generate(context.Background(), GenerateRequest{})
	require.EqualError(t, err, "b failed")
}

func TestGroupEmbedder(t *testing.T) {
	require.Nil(t, NewGroupEmbedder(nil))

	single := &countingEmbedder{}
	require.Same(t, IEmbedder(single), NewGroupEmbedder([]EmbedderEntry{{Name: "one", Embedder: single}}))

	failing := &countingEmbedder{err: errors.New("down")}
	ok := &countingEmbedder{}
	e := NewGroupEmbedder([]EmbedderEntry{{Name: "failing", Embedder: failing}, {Name: "ok", Embedder: ok}})
	vec, err := e.Embed(context.Background(), "text", TaskRetrievalDocument)
	require.NoError(t, err)
	require.Equal(t, []float32{1, 0}, vec)
	require.Equal(t, "counting|counting", e.ModelName())
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider("", nil)
	require.Error(t, err)
	_, err = NewProvider("nope", map[string]interface{}{})
	require.Error(t, err)

	p, err := NewProvider("Gemini", map[string]interface{}{"api_key": ""})
	require.NoError(t, err)
	require.Equal(t, "gemini", p.Name())
	_, err = p.Generate(context.Background(), "m", GenerateRequest{})
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGroupSkipsNilMembers(t *testing.T) {
	g := NewGroupGenerator([]GeneratorEntry{{Name: "a"}, {Name: "b"}})
	_, err := g.Generate(context.Background(), GenerateRequest{})
	require.ErrorIs(t, err, ErrUnavailable)

	ok := &countingGenerator{out: "x"}
	g = NewGroupGenerator([]GeneratorEntry{{Name: "a"}, {Name: "b", Generator: ok}})
	out, err := g.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	require.Equal(t, "x", out)
}

func TestGroupStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	first := &countingGenerator{errs: []error{context.Canceled}}
	second := &countingGenerator{out: "x"}
	g := NewGroupGenerator([]GeneratorEntry{{Name: "a", Generator: first}, {Name: "b", Generator: second}})
	_, err := g.Generate(ctx, GenerateRequest{})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, second.calls)
}

func TestBindingModelName(t *testing.T) {
	p, err := NewProvider(" openai ", map[string]interface{}{"api_key": "k"})
	require.NoError(t, err)
	require.Equal(t, "openai/text-embedding-3-small", NewEmbedder(p, "text-embedding-3-small").ModelName())
}
