package pthread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJoinReturnsEntryResult(t *testing.T) {
	th, err := Create(func(arg any) any {
		return arg.(int) * 2
	}, 21)
	require.NoError(t, err)

	result, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestJoinTwiceFails(t *testing.T) {
	th, err := Create(func(any) any { return nil }, nil)
	require.NoError(t, err)

	_, err = Join(th)
	require.NoError(t, err)

	_, err = Join(th)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestJoinSelfIsDeadlock(t *testing.T) {
	done := make(chan error, 1)
	th, err := Create(func(any) any {
		_, joinErr := Join(Self())
		done <- joinErr
		return nil
	}, nil)
	require.NoError(t, err)

	assert.ErrorIs(t, <-done, ErrDeadlock)
	_, err = Join(th)
	require.NoError(t, err)
}

func TestDetachedThreadCannotBeJoined(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	th, err := Create(func(any) any {
		close(started)
		<-release
		return nil
	}, nil, WithDetachState(Detached))
	require.NoError(t, err)

	<-started
	_, err = Join(th)
	assert.ErrorIs(t, err, ErrInvalid)
	close(release)
}

func TestDetachAfterCompletionRetiresImmediately(t *testing.T) {
	done := make(chan struct{})
	th, err := Create(func(any) any {
		close(done)
		return nil
	}, nil)
	require.NoError(t, err)

	<-done
	// give the trampoline a moment to finish and mark terminated-unjoined
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, Detach(th))
	assert.ErrorIs(t, Detach(th), ErrInvalid)
}

func TestExitSetsJoinValue(t *testing.T) {
	th, err := Create(func(any) any {
		Exit("early")
		return "unreachable"
	}, nil)
	require.NoError(t, err)

	result, err := Join(th)
	require.NoError(t, err)
	assert.Equal(t, "early", result)
}

func TestCleanupRunsOnNormalReturn(t *testing.T) {
	var ran []string
	push := func(tag string) {
		CleanupPush(func(any) { ran = append(ran, tag) }, nil)
	}

	th, err := Create(func(any) any {
		push("normal")
		return nil
	}, nil)
	require.NoError(t, err)
	_, err = Join(th)
	require.NoError(t, err)
	assert.Contains(t, ran, "normal")
}

func TestSelfIsNilOutsideCreatedThread(t *testing.T) {
	assert.Nil(t, Self())
}

func TestEqualDistinguishesThreads(t *testing.T) {
	a, err := Create(func(any) any { return nil }, nil)
	require.NoError(t, err)
	b, err := Create(func(any) any { return nil }, nil)
	require.NoError(t, err)

	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b))
	assert.False(t, Equal(nil, nil))

	_, _ = Join(a)
	_, _ = Join(b)
}
