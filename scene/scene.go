package scene

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/constants"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/noise"
	"github.com/jsphweid/tonalpalette/palette"
	"github.com/jsphweid/tonalpalette/util"
)

// Renderer draws one frame. It only ever sees live entities.
type Renderer interface {
	Background(hue float64)
	DrawParticle(p model.ParticleView)
}

// Entity is anything the scene advances and draws each frame. Destroy only
// marks the entity; the scene removes it in its cull phase.
type Entity interface {
	Update()
	Show(r Renderer)
	Alive() bool
	Destroy()
}

// Object provides the liveness flag for entities.
type Object struct {
	dead bool
}

func (o *Object) Alive() bool { return !o.dead }
func (o *Object) Destroy()    { o.dead = true }

// Scene owns named groups of entities and runs update, cull, render in that
// order on every Tick.
type Scene struct {
	controls   *config.Controls
	rng        *rand.Rand
	noise      *noise.Perlin
	groups     map[string][]Entity
	estimation model.Estimation
	bgHue      float64
	log        *logrus.Entry
}

func New(controls *config.Controls, seed int64, log *logrus.Entry) *Scene {
	return &Scene{
		controls: controls,
		rng:      rand.New(rand.NewSource(seed)),
		noise:    noise.New(seed),
		groups:   map[string][]Entity{constants.ParticleGroup: nil},
		bgHue:    160,
		log:      log.WithField("component", "scene"),
	}
}

// NotifyEstimation spawns a particle for the note that produced est.
func (s *Scene) NotifyEstimation(msg model.NoteMessage, est model.Estimation) {
	s.estimation = est
	s.Spawn(msg, est)
}

// Spawn creates a particle for a note-on whose velocity reaches the spawn
// threshold. Placement follows the note's own pitch; color and caption
// follow the predicted key.
func (s *Scene) Spawn(msg model.NoteMessage, est model.Estimation) bool {
	if !msg.On || int(msg.Velocity) < s.controls.SpawnThreshold {
		return false
	}
	c := s.controls
	tonic := est.Prediction.Tonic
	pitch := float64(msg.Pitch)

	p := newParticle(s, particleParams{
		x:      util.MapRange(pitch, float64(c.MinPitch), float64(c.MaxPitch), 0, c.Width),
		y:      c.BottomBorder * c.Height,
		radius: util.MapRange(float64(msg.Velocity), 0, 128, c.Radius.Min, c.Radius.Max),
		pitch:  msg.Pitch,
		color: model.HSLA{
			Hue:        palette.PitchToHue(tonic),
			Saturation: s.uniform(c.Saturation),
			Lightness:  s.uniform(c.Lightness),
			Alpha:      s.uniform(c.Alpha),
		},
		caption: palette.NoteName(tonic, int(msg.Pitch)),
	})
	s.Add(constants.ParticleGroup, p)
	return true
}

func (s *Scene) uniform(r config.Range) float64 {
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}

func (s *Scene) gaussian(n config.Normal) float64 {
	return n.Mean + s.rng.NormFloat64()*n.Std
}

func (s *Scene) Add(group string, e Entity) {
	s.groups[group] = append(s.groups[group], e)
}

// Tick runs one frame: every live entity is updated, dead ones are removed,
// and the survivors are shown.
func (s *Scene) Tick(r Renderer) {
	target := palette.PitchToHue(s.estimation.Prediction.Tonic)
	s.bgHue = palette.StepHue(s.bgHue, target, s.controls.BgTransitionSpeed)

	names := util.SortedKeys(s.groups)
	for _, name := range names {
		for _, e := range s.groups[name] {
			e.Update()
		}
	}
	for _, name := range names {
		s.groups[name] = cull(s.groups[name])
	}

	r.Background(s.bgHue)
	for _, name := range names {
		for _, e := range s.groups[name] {
			e.Show(r)
		}
	}
}

// cull compacts the live entities to the front of the slice.
func cull(entities []Entity) []Entity {
	live := entities[:0]
	for _, e := range entities {
		if e.Alive() {
			live = append(live, e)
		}
	}
	for i := len(live); i < len(entities); i++ {
		entities[i] = nil
	}
	return live
}

// Clear drops every entity of a group.
func (s *Scene) Clear(group string) {
	n := len(s.groups[group])
	s.groups[group] = nil
	s.log.WithFields(logrus.Fields{"group": group, "removed": n}).Info("cleared group")
}

func (s *Scene) Len(group string) int {
	return len(s.groups[group])
}

func (s *Scene) BackgroundHue() float64 {
	return s.bgHue
}
