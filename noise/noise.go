// Package noise implements seeded one-dimensional Perlin-style value noise
// with cosine interpolation and summed octaves.
package noise

import (
	"math"
	"math/rand"
)

const (
	size    = 4095
	octaves = 4
	falloff = 0.5
)

type Perlin struct {
	table [size + 1]float64
}

func New(seed int64) *Perlin {
	rng := rand.New(rand.NewSource(seed))
	p := &Perlin{}
	for i := range p.table {
		p.table[i] = rng.Float64()
	}
	return p
}

func scaledCosine(i float64) float64 {
	return 0.5 * (1.0 - math.Cos(i*math.Pi))
}

// At returns a smoothly varying value in [0, 1) for x.
func (p *Perlin) At(x float64) float64 {
	x = math.Abs(x)
	xi := int(math.Floor(x))
	xf := x - float64(xi)

	r := 0.0
	ampl := 0.5
	for o := 0; o < octaves; o++ {
		rxf := scaledCosine(xf)
		lo := p.table[xi&size]
		hi := p.table[(xi+1)&size]
		r += (lo + rxf*(hi-lo)) * ampl

		ampl *= falloff
		xi <<= 1
		xf *= 2
		if xf >= 1 {
			xi++
			xf--
		}
	}
	return r
}
