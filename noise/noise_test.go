package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtIsDeterministicPerSeed(t *testing.T) {
	a, b, c := New(1), New(1), New(2)
	assert.Equal(t, a.At(12.34), b.At(12.34))
	assert.NotEqual(t, a.At(12.34), c.At(12.34))
}

func TestAtRangeAndContinuity(t *testing.T) {
	p := New(7)
	prev := p.At(0)
	for x := 0.0; x < 200; x += 0.01 {
		v := p.At(x)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
		assert.InDelta(t, prev, v, 0.1, "jump at %v", x)
		prev = v
	}
}

func TestAtIsSymmetric(t *testing.T) {
	p := New(3)
	assert.Equal(t, p.At(5.5), p.At(-5.5))
}
