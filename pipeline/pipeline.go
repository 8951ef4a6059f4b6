package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/constants"
	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/scene"
	"github.com/jsphweid/tonalpalette/settings"
	"github.com/jsphweid/tonalpalette/tonal"
)

// Pipeline wires device events through the estimator into the scene.
//
// mu plays the role of the single logical thread: note delivery, frame ticks
// and snapshot queries never interleave. It is taken while the device layer's
// own lock is held (on delivery), so nothing here may call into the device
// layer while holding mu.
type Pipeline struct {
	mu        sync.Mutex
	controls  *config.Controls
	devices   *midi.DeviceLayer
	estimator *tonal.Estimator
	scene     *scene.Scene
	frame     model.Frame

	store   settings.Store
	persist func(f func())
	// saveMu guards pending and is held while a save runs
	saveMu  sync.Mutex
	pending []string
	log     *logrus.Entry
}

// New builds the cascade DeviceLayer -> Estimator -> Scene. platform may be
// nil when the MIDI subsystem failed to start; store may be nil to disable
// persistence.
func New(controls *config.Controls, platform midi.Platform, store settings.Store, log *logrus.Entry) *Pipeline {
	p := &Pipeline{
		controls:  controls,
		devices:   midi.NewDeviceLayer(platform, log),
		estimator: tonal.New(controls, log),
		scene:     scene.New(controls, time.Now().UnixNano(), log),
		store:     store,
		persist:   debounce.New(controls.PersistDebounce),
		log:       log.WithField("component", "pipeline"),
	}
	p.devices.AddSubscriber(p)
	p.estimator.AddSubscriber(p.scene)
	return p
}

// Start discovers inputs and restores the persisted selection. Errors are
// returned for the caller to report; the pipeline keeps working without input.
func (p *Pipeline) Start() ([]string, error) {
	if err := p.devices.Discover(); err != nil {
		return nil, err
	}

	var persisted []string
	found := false
	if p.store != nil {
		var err error
		persisted, found, err = p.store.LoadDevices()
		if err != nil {
			p.log.WithError(err).Warn("could not load device selection, selecting all devices")
			found = false
		}
	}
	return p.devices.RestoreSelection(persisted, found)
}

// NotifyNote is the pipeline's entry point from the device layer.
func (p *Pipeline) NotifyNote(msg model.NoteMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.estimator.NotifyNote(msg)
}

// Tick runs one scene frame and keeps its result for Frame.
func (p *Pipeline) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := &frameRenderer{}
	p.scene.Tick(r)
	p.frame = r.frame
}

// Run ticks at the configured frame rate until ctx is done.
func (p *Pipeline) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(p.controls.FrameRate))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}

func (p *Pipeline) Frame() model.Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	particles := make([]model.ParticleView, len(p.frame.Particles))
	copy(particles, p.frame.Particles)
	return model.Frame{BackgroundHue: p.frame.BackgroundHue, Particles: particles}
}

func (p *Pipeline) Estimation() model.Estimation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.estimator.Estimation()
}

func (p *Pipeline) Controls() config.Controls {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.controls
}

func (p *Pipeline) Devices() []model.Device {
	return p.devices.Devices()
}

// SelectDevices reconfigures the active inputs and schedules a write of the
// new selection.
func (p *Pipeline) SelectDevices(names []string) error {
	if err := p.devices.SetActiveDevices(names); err != nil {
		return err
	}
	active := p.devices.ActiveNames()
	if active == nil {
		active = []string{}
	}
	if p.store != nil {
		p.saveMu.Lock()
		p.pending = active
		p.saveMu.Unlock()
		p.persist(p.flush)
	}
	return nil
}

// flush writes the latest unsaved selection, if any.
func (p *Pipeline) flush() {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()
	if p.pending == nil {
		return
	}
	names := p.pending
	p.pending = nil
	if err := p.store.SaveDevices(names); err != nil {
		p.log.WithError(err).Error("could not save device selection")
	}
}

// SetWindowSize changes the estimator capacity. All accumulated notes are
// dropped rather than trimmed.
func (p *Pipeline) SetWindowSize(n int) error {
	if err := config.ValidateWindowSize(n); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.controls.WindowSize = n
	p.estimator.SetWindowSize(n)
	p.estimator.Reset()
	p.log.WithField("window", n).Info("estimator window resized")
	return nil
}

func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scene.Clear(constants.ParticleGroup)
}

// Close stops all inputs and writes a selection still waiting on the debounce.
func (p *Pipeline) Close() error {
	err := p.devices.Close()
	if p.store != nil {
		p.flush()
	}
	return errors.Wrap(err, "closing devices")
}

type frameRenderer struct {
	frame model.Frame
}

func (r *frameRenderer) Background(hue float64) {
	r.frame.BackgroundHue = hue
}

func (r *frameRenderer) DrawParticle(v model.ParticleView) {
	r.frame.Particles = append(r.frame.Particles, v)
}
