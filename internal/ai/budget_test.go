package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTakeRetry(t *testing.T) {
	require.True(t, TakeRetry(context.Background()))

	ctx := WithRetryBudget(context.Background(), 1)
	require.True(t, TakeRetry(ctx))
	require.False(t, TakeRetry(ctx))

	require.False(t, TakeRetry(WithRetryBudget(context.Background(), 0)))
	require.False(t, TakeRetry(WithRetryBudget(context.Background(), -2)))
}

func TestRetryGeneratorRespectsRequestBudget(t *testing.T) {
	inner := &countingGenerator{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
	g := WrapRetryGenerator(inner, 3).(*retryGenerator)
	g.backoff = 0

	_, err := g.Generate(WithRetryBudget(context.Background(), 1), GenerateRequest{})
	require.EqualError(t, err, "b")
	require.Equal(t, 2, inner.calls)
}

func TestFailoverDrawsFromRequestBudget(t *testing.T) {
	first := &countingGenerator{errs: []error{errors.New("down")}}
	second := &countingGenerator{out: "ok"}
	g := NewGroupGenerator([]GeneratorEntry{{Name: "a", Generator: first}, {Name: "b", Generator: second}})

	_, err := g.Generate(WithRetryBudget(context.Background(), 0), GenerateRequest{})
	require.EqualError(t, err, "down")
	require.Equal(t, 0, second.calls)
}

func TestRetryAndFailoverShareOneBudget(t *testing.T) {
	inner := &countingGenerator{errs: []error{errors.New("a"), errors.New("b")}}
	retrying := WrapRetryGenerator(inner, 1).(*retryGenerator)
	retrying.backoff = 0
	second := &countingGenerator{out: "ok"}
	g := NewGroupGenerator([]GeneratorEntry{{Name: "a", Generator: retrying}, {Name: "b", Generator: second}})

	_, err := g.Generate(WithRetryBudget(context.Background(), 1), GenerateRequest{})
	require.EqualError(t, err, "b")
	require.Equal(t, 2, inner.calls)
	require.Equal(t, 0, second.calls)
}
