package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var ErrUnavailable = errors.New("ai provider unavailable")

const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// GenerateRequest asks for a single JSON object matching Schema.
type GenerateRequest struct {
	SystemInstruction string
	Schema            *Schema
	Prompt            string
}

type IProvider interface {
	Name() string
	Generate(ctx context.Context, model string, req GenerateRequest) (string, error)
	Embed(ctx context.Context, model string, text string, taskType string) ([]float32, error)
}

type IGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type IEmbedder interface {
	Embed(ctx context.Context, text string, taskType string) ([]float32, error)
	ModelName() string
}

// binding pins a provider to one model name.
type binding struct {
	provider IProvider
	model    string
}

func NewGenerator(p IProvider, model string) IGenerator {
	return &binding{provider: p, model: model}
}

func NewEmbedder(p IProvider, model string) IEmbedder {
	return &binding{provider: p, model: model}
}

func (b *binding) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return b.provider.Generate(ctx, b.model, req)
}

func (b *binding) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return b.provider.Embed(ctx, b.model, text, taskType)
}

func (b *binding) ModelName() string {
	return b.provider.Name() + "/" + b.model
}

type ProviderFactory func(args interface{}) (IProvider, error)

var providers = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	providers[normalizeName(name)] = factory
}

func NewProvider(name string, args interface{}) (IProvider, error) {
	factory, ok := providers[normalizeName(name)]
	if !ok || factory == nil {
		return nil, fmt.Errorf("unsupported ai provider %q", name)
	}
	return factory(args)
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
