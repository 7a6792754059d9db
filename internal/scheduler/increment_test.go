package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabetIncrement(t *testing.T) {
	testCases := []struct {
		task string
		want int
	}{
		{"A", 1},
		{"B", 2},
		{"Z", 26},
		{"a", 1},
		{"z", 26},
	}
	for _, tc := range testCases {
		t.Run(tc.task, func(t *testing.T) {
			got, err := AlphabetIncrement(tc.task)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []string{"", "AB", "1", "é"} {
		_, err := AlphabetIncrement(bad)
		assert.Error(t, err, "%q", bad)
	}
}

func TestWithOverrides(t *testing.T) {
	inc := WithOverrides(nil, map[string]int{"C": 100})

	n, err := inc("C")
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	n, err = inc("D")
	require.NoError(t, err)
	assert.Equal(t, 4, n, "falls back to the alphabet rule")

	plain := WithOverrides(ConstantIncrement(7), nil)
	n, err = plain("anything")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestAtPositions(t *testing.T) {
	assert.Nil(t, AtPositions(nil, []string{"A"}))

	inc := AtPositions(func(task string, position int) (int, error) {
		return 10*position + len(task), nil
	}, []string{"a", "bb", "ccc"})

	n, err := inc("bb")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = inc("ccc")
	require.NoError(t, err)
	assert.Equal(t, 23, n)

	_, err = inc("dddd")
	assert.ErrorContains(t, err, "not in the task universe")
}

func TestPool(t *testing.T) {
	p := newPool(3)
	assert.True(t, p.allIdle())
	assert.Zero(t, p.nextDelta())
	assert.Equal(t, []int{0, 1, 2}, p.idleSlots())

	p.assign(0, "A", 5)
	p.assign(2, "B", 3)
	assert.Equal(t, 2, p.busyCount())
	assert.Equal(t, 3, p.nextDelta())
	assert.Equal(t, []int{1}, p.idleSlots())

	done := p.advance(3)
	assert.Equal(t, []completion{{worker: 2, task: "B"}}, done)
	assert.Equal(t, 2, p.workers[0].busyUntil)

	done = p.advance(p.nextDelta())
	assert.Equal(t, []completion{{worker: 0, task: "A"}}, done)
	assert.True(t, p.allIdle())

	assert.Empty(t, p.advance(0), "idle workers complete nothing")
}
