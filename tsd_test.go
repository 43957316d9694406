package pthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySetGetPerThread(t *testing.T) {
	key, err := NewKey(nil)
	require.NoError(t, err)

	results := make(chan any, 2)
	for i := 0; i < 2; i++ {
		v := i
		th, err := Create(func(any) any {
			require.NoError(t, key.Set(v))
			results <- key.Get()
			return nil
		}, nil)
		require.NoError(t, err)
		_, err = Join(th)
		require.NoError(t, err)
	}
	close(results)

	seen := map[any]bool{}
	for r := range results {
		seen[r] = true
	}
	assert.True(t, seen[0])
	assert.True(t, seen[1])
}

func TestKeyDestructorRunsAtThreadExit(t *testing.T) {
	destroyed := make(chan any, 1)
	key, err := NewKey(func(v any) { destroyed <- v })
	require.NoError(t, err)

	th, err := Create(func(any) any {
		require.NoError(t, key.Set("payload"))
		return nil
	}, nil)
	require.NoError(t, err)

	_, err = Join(th)
	require.NoError(t, err)

	select {
	case v := <-destroyed:
		assert.Equal(t, "payload", v)
	default:
		t.Fatal("destructor did not run before Join returned")
	}
}

func TestKeyDestructorConvergesWithinIterationCap(t *testing.T) {
	var key *Key
	var calls int
	var err error
	key, err = NewKey(func(v any) {
		calls++
		n := v.(int)
		if n > 0 && calls < DestructorIterationCap {
			_ = key.Set(n - 1)
		}
	})
	require.NoError(t, err)

	th, err := Create(func(any) any {
		require.NoError(t, key.Set(DestructorIterationCap - 1))
		return nil
	}, nil)
	require.NoError(t, err)
	_, err = Join(th)
	require.NoError(t, err)

	assert.LessOrEqual(t, calls, DestructorIterationCap)
	assert.Greater(t, calls, 1)
}

func TestKeyDeleteInvalidatesFurtherUse(t *testing.T) {
	key, err := NewKey(nil)
	require.NoError(t, err)
	require.NoError(t, key.Set(1))
	require.NoError(t, key.Delete())
	assert.ErrorIs(t, key.Set(2), ErrInvalid)
	assert.Nil(t, key.Get())
	assert.ErrorIs(t, key.Delete(), ErrInvalid)
}
