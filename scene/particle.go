package scene

import (
	"math"

	"github.com/google/uuid"

	"github.com/jsphweid/tonalpalette/constants"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/noise"
)

type particleParams struct {
	x, y    float64
	radius  float64
	pitch   uint8
	color   model.HSLA
	caption string
}

// Particle drifts upwards from where its note was placed, steered by noise,
// until it leaves the canvas.
type Particle struct {
	Object
	id      string
	x, y    float64
	vx, vy  float64
	radius  float64
	pitch   uint8
	color   model.HSLA
	caption string

	seedX, seedY float64
	t            float64
	noiseStep    float64
	maxVelocity  float64
	width        float64
	height       float64
	noise        *noise.Perlin
}

func newParticle(s *Scene, p particleParams) *Particle {
	c := s.controls
	return &Particle{
		id:          uuid.New().String(),
		x:           p.x,
		y:           p.y,
		vx:          s.gaussian(c.VelocityX),
		vy:          s.gaussian(c.VelocityY),
		radius:      p.radius,
		pitch:       p.pitch,
		color:       p.color,
		caption:     p.caption,
		seedX:       1 + s.rng.Float64()*9999,
		seedY:       1 + s.rng.Float64()*9999,
		noiseStep:   c.NoiseStep,
		maxVelocity: c.MaxVelocity,
		width:       c.Width,
		height:      c.Height,
		noise:       s.noise,
	}
}

func (p *Particle) Update() {
	p.x += p.vx
	p.y += p.vy

	p.t += p.noiseStep
	p.vx += 0.01 * (p.noise.At(p.seedX+p.t) - .5)
	p.vy += p.noise.At(p.seedY+p.t) - .8
	p.limitVelocity()

	if p.x+p.radius < 0 || p.x-p.radius > p.width {
		p.Destroy()
	}
	if p.y+p.radius < 0 || p.y-p.radius > p.height {
		p.Destroy()
	}
}

func (p *Particle) limitVelocity() {
	speed := math.Hypot(p.vx, p.vy)
	if speed > p.maxVelocity && speed > 0 {
		scale := p.maxVelocity / speed
		p.vx *= scale
		p.vy *= scale
	}
}

func (p *Particle) Show(r Renderer) {
	r.DrawParticle(p.View())
}

func (p *Particle) View() model.ParticleView {
	return model.ParticleView{
		ID:      p.id,
		Group:   constants.ParticleGroup,
		X:       p.x,
		Y:       p.y,
		Radius:  p.radius,
		Pitch:   p.pitch,
		Caption: p.caption,
		Color:   p.color,
	}
}
