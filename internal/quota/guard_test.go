package quota

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuard(t *testing.T) {
	g := New(2)
	require.False(t, g.IsExceeded())
	g.Increment()
	require.False(t, g.IsExceeded())
	g.Increment()
	require.True(t, g.IsExceeded())
	require.Equal(t, int64(2), g.Used())
	require.Equal(t, int64(2), g.Limit())

	g.Reset()
	require.False(t, g.IsExceeded())
	require.Zero(t, g.Used())
}

func TestGuardZeroLimitIsAlwaysExceeded(t *testing.T) {
	require.True(t, New(0).IsExceeded())
}

func TestGuardConcurrentIncrement(t *testing.T) {
	g := New(1000)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				g.Increment()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1000), g.Used())
	require.True(t, g.IsExceeded())
}
