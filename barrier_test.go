package pthread

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrierReleasesAllPartiesTogether(t *testing.T) {
	const parties = 6
	b, err := NewBarrier(parties)
	require.NoError(t, err)

	var before, after atomic.Int32
	var serialCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			before.Add(1)
			serial, err := b.Wait()
			require.NoError(t, err)
			if serial {
				serialCount.Add(1)
			}
			after.Add(1)
		}()
	}
	wg.Wait()

	assert.EqualValues(t, parties, before.Load())
	assert.EqualValues(t, parties, after.Load())
	assert.EqualValues(t, 1, serialCount.Load())
}

func TestBarrierIsReusableAcrossGenerations(t *testing.T) {
	const parties = 3
	b, err := NewBarrier(parties)
	require.NoError(t, err)

	for gen := 0; gen < 3; gen++ {
		var wg sync.WaitGroup
		var serialCount atomic.Int32
		for i := 0; i < parties; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				serial, err := b.Wait()
				require.NoError(t, err)
				if serial {
					serialCount.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, serialCount.Load())
	}
}

func TestNewBarrierRejectsNonPositiveParties(t *testing.T) {
	_, err := NewBarrier(0)
	assert.ErrorIs(t, err, ErrInvalid)
}
