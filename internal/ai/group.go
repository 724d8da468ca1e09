package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type GeneratorEntry struct {
	Name      string
	Generator IGenerator
}

type EmbedderEntry struct {
	Name     string
	Embedder IEmbedder
}

// failover calls each configured member in order and returns the first
// success. Moving past a failed member draws from the request retry budget.
// Once ctx is done no further members are tried.
func failover[T any](ctx context.Context, kind string, names []string, call func(i int) (T, bool, error)) (T, error) {
	var (
		zero    T
		lastErr error
	)
	for i, name := range names {
		if lastErr != nil && !TakeRetry(ctx) {
			break
		}
		res, ok, err := call(i)
		if !ok {
			continue
		}
		if err == nil {
			return res, nil
		}
		lastErr = err
		logutil.GetLogger(ctx).Warn(kind+" failed, trying next", zap.Int("index", i), zap.String("name", name), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		return zero, fmt.Errorf("no %s configured: %w", kind, ErrUnavailable)
	}
	return zero, lastErr
}

type groupGenerator struct {
	names []string
	items []IGenerator
}

// NewGroupGenerator tries each generator in order until one succeeds.
func NewGroupGenerator(entries []GeneratorEntry) IGenerator {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		return entries[0].Generator
	}
	g := &groupGenerator{}
	for _, e := range entries {
		g.names = append(g.names, e.Name)
		g.items = append(g.items, e.Generator)
	}
	return g
}

func (g *groupGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return failover(ctx, "generator", g.names, func(i int) (string, bool, error) {
		if g.items[i] == nil {
			return "", false, nil
		}
		out, err := g.items[i].Generate(ctx, req)
		return out, true, err
	})
}

type groupEmbedder struct {
	names []string
	items []IEmbedder
}

// NewGroupEmbedder falls back across embedders. All entries must share the
// output dimension, otherwise stored vectors become incomparable.
func NewGroupEmbedder(entries []EmbedderEntry) IEmbedder {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		return entries[0].Embedder
	}
	g := &groupEmbedder{}
	for _, e := range entries {
		g.names = append(g.names, e.Name)
		g.items = append(g.items, e.Embedder)
	}
	return g
}

func (g *groupEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return failover(ctx, "embedder", g.names, func(i int) ([]float32, bool, error) {
		if g.items[i] == nil {
			return nil, false, nil
		}
		vec, err := g.items[i].Embed(ctx, text, taskType)
		return vec, true, err
	})
}

// ModelName joins the member models so a changed fallback chain is detected
// as a different embedding space.
func (g *groupEmbedder) ModelName() string {
	models := make([]string, 0, len(g.items))
	for _, item := range g.items {
		if item == nil {
			continue
		}
		if name := item.ModelName(); name != "" {
			models = append(models, name)
		}
	}
	return strings.Join(models, "|")
}
