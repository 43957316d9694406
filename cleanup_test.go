package pthread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupStackIsLIFO(t *testing.T) {
	var order []int

	th, err := Create(func(any) any {
		CleanupPush(func(a any) { order = append(order, a.(int)) }, 1)
		CleanupPush(func(a any) { order = append(order, a.(int)) }, 2)
		CleanupPush(func(a any) { order = append(order, a.(int)) }, 3)
		return nil
	}, nil)
	require.NoError(t, err)

	_, err = Join(th)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestCleanupPopWithoutExecute(t *testing.T) {
	var ran bool

	th, err := Create(func(any) any {
		CleanupPush(func(any) { ran = true }, nil)
		CleanupPop(false)
		return nil
	}, nil)
	require.NoError(t, err)

	_, err = Join(th)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestCleanupPopWithExecuteRunsImmediately(t *testing.T) {
	var order []string

	th, err := Create(func(any) any {
		CleanupPush(func(any) { order = append(order, "outer") }, nil)
		CleanupPush(func(any) { order = append(order, "inner") }, nil)
		CleanupPop(true) // runs "inner" immediately
		return nil
	}, nil)
	require.NoError(t, err)

	_, err = Join(th)
	require.NoError(t, err)
	assert.Equal(t, []string{"inner", "outer"}, order)
}
