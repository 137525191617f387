package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	set, in := Toggle([]string(nil), "a")
	assert.True(t, in)
	assert.Equal(t, []string{"a"}, set)

	set, in = Toggle(set, "a")
	assert.False(t, in)
	assert.NotNil(t, set)
	assert.Empty(t, set)
}

func TestToggleIsInvolution(t *testing.T) {
	sets := [][]string{{}, {"a"}, {"a", "b", "c"}, {"b", "c"}}
	for _, start := range sets {
		for _, id := range []string{"a", "b", "z"} {
			once, _ := Toggle(start, id)
			twice, _ := Toggle(once, id)
			assert.ElementsMatch(t, start, twice, "start=%v id=%s", start, id)
		}
	}
}

func TestToggleDoesNotMutateInput(t *testing.T) {
	start := []int{1, 2, 3}
	_, _ = Toggle(start, 2)
	_, _ = Toggle(start, 4)
	assert.Equal(t, []int{1, 2, 3}, start)
}

func TestAddIfAbsent(t *testing.T) {
	set, changed := AddIfAbsent([]string{}, "v")
	assert.True(t, changed)
	assert.Equal(t, []string{"v"}, set)

	again, changed := AddIfAbsent(set, "v")
	assert.False(t, changed)
	assert.Equal(t, set, again)
}

func TestRemoveAndContains(t *testing.T) {
	set, changed := Remove([]string{"a", "b"}, "a")
	assert.True(t, changed)
	assert.Equal(t, []string{"b"}, set)
	assert.True(t, Contains(set, "b"))
	assert.False(t, Contains(set, "a"))

	_, changed = Remove(set, "a")
	assert.False(t, changed)
}
