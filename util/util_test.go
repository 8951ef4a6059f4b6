package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "c": 2, "a": 3}
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(m))
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(5, Clamp(7, 0, 5))
	assert.Equal(0, Clamp(-2, 0, 5))
	assert.Equal(3.5, Clamp(3.5, 0.0, 5.0))
}

func TestMapRange(t *testing.T) {
	assert := assert.New(t)
	assert.InDelta(50.0, MapRange(64.0, 0, 128, 0, 100), 1e-9)
	assert.InDelta(5.0, MapRange(0.0, 0, 128, 5, 40), 1e-9)
	assert.Equal(7.0, MapRange(3.0, 1, 1, 7, 9))
}
