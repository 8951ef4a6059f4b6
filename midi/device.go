package midi

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/util"
)

var (
	ErrNoDevice       = errors.New("no MIDI input device found")
	ErrPlatformEnable = errors.New("MIDI platform could not be enabled")
)

// Observer receives every normalized note event from an active device.
// It runs while the device layer's lock is held and must not call back
// into the DeviceLayer.
type Observer interface {
	NotifyNote(msg model.NoteMessage)
}

// DeviceLayer owns the discovered inputs, which of them are subscribed, and
// fans their note events out to subscribers in registration order.
type DeviceLayer struct {
	// serializes Discover and SetActiveDevices
	reconfigure sync.Mutex

	mu          sync.Mutex
	platform    Platform
	names       []string
	ports       map[string]Port
	active      map[string]bool
	stops       map[string]func()
	gen         uint64
	subscribers []Observer
	log         *logrus.Entry
}

// NewDeviceLayer accepts a nil platform; the layer then stays inert and
// Discover reports ErrPlatformEnable.
func NewDeviceLayer(platform Platform, log *logrus.Entry) *DeviceLayer {
	return &DeviceLayer{
		platform: platform,
		ports:    make(map[string]Port),
		active:   make(map[string]bool),
		stops:    make(map[string]func()),
		log:      log.WithField("component", "midi"),
	}
}

func (d *DeviceLayer) AddSubscriber(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, o)
}

// Discover lists the platform inputs. Every device starts inactive.
func (d *DeviceLayer) Discover() error {
	d.reconfigure.Lock()
	defer d.reconfigure.Unlock()

	if d.platform == nil {
		return ErrPlatformEnable
	}
	ports, err := d.platform.Inputs()
	if err != nil {
		return errors.Wrapf(ErrPlatformEnable, "discovering inputs: %v", err)
	}

	d.mu.Lock()
	old := d.detach()
	d.names = d.names[:0]
	d.ports = make(map[string]Port, len(ports))
	for _, p := range ports {
		name := p.Name()
		if _, dup := d.ports[name]; dup {
			continue
		}
		d.names = append(d.names, name)
		d.ports[name] = p
	}
	found := len(d.names)
	d.mu.Unlock()
	stopAll(old)

	if found == 0 {
		return ErrNoDevice
	}
	d.log.WithField("devices", d.names).Info("discovered inputs")
	return nil
}

// RestoreSelection activates the persisted devices that were discovered. If
// nothing was persisted every discovered device is activated.
func (d *DeviceLayer) RestoreSelection(persisted []string, found bool) ([]string, error) {
	d.mu.Lock()
	selected := make([]string, 0, len(d.names))
	if !found {
		selected = append(selected, d.names...)
	} else {
		wanted := util.Set(persisted)
		for _, name := range d.names {
			if _, ok := wanted[name]; ok {
				selected = append(selected, name)
			}
		}
	}
	d.mu.Unlock()

	return selected, d.SetActiveDevices(selected)
}

// SetActiveDevices drops every current subscription and subscribes exactly
// the known devices named in names. Unknown names are ignored. If any
// subscription fails, none are kept.
func (d *DeviceLayer) SetActiveDevices(names []string) error {
	d.reconfigure.Lock()
	defer d.reconfigure.Unlock()

	// Phase 1: no device is active and stale listeners are cut off by the
	// generation bump. Old listeners are stopped outside the lock because a
	// platform may wait for an in-flight callback while closing a port.
	d.mu.Lock()
	old := d.detach()
	gen := d.gen
	known := make([]string, len(d.names))
	copy(known, d.names)
	ports := d.ports
	d.mu.Unlock()
	stopAll(old)

	wanted := util.Set(names)
	stops := make(map[string]func())
	for _, name := range known {
		if _, ok := wanted[name]; !ok {
			continue
		}
		stop, err := ports[name].Listen(d.receiver(name, gen))
		if err != nil {
			stopAll(stops)
			d.log.WithError(err).WithField("device", name).Debug("could not enable device")
			return errors.Wrapf(ErrPlatformEnable, "enabling %q: %v", name, err)
		}
		stops[name] = stop
	}

	// Phase 2: activate all new subscriptions at once.
	d.mu.Lock()
	if d.gen == gen {
		d.stops = stops
		for name := range stops {
			d.active[name] = true
		}
	}
	d.mu.Unlock()

	d.log.WithField("devices", util.SortedKeys(stops)).Info("updated selected devices")
	return nil
}

// detach must be called with mu held.
func (d *DeviceLayer) detach() map[string]func() {
	old := d.stops
	d.stops = make(map[string]func())
	d.active = make(map[string]bool)
	d.gen++
	return old
}

func stopAll(stops map[string]func()) {
	for _, name := range util.SortedKeys(stops) {
		stops[name]()
	}
}

func (d *DeviceLayer) receiver(name string, gen uint64) func(model.NoteMessage) {
	return func(msg model.NoteMessage) {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen != gen || !d.active[name] {
			return
		}
		msg.Device = name
		d.dispatch(msg)
	}
}

// OnNoteOn forwards a note-on from device if it is currently active.
func (d *DeviceLayer) OnNoteOn(device string, pitch, velocity uint8) {
	d.forward(model.NoteMessage{Device: device, Pitch: pitch, Velocity: velocity, On: true})
}

// OnNoteOff forwards a note-off from device if it is currently active.
func (d *DeviceLayer) OnNoteOff(device string, pitch uint8) {
	d.forward(model.NoteMessage{Device: device, Pitch: pitch})
}

func (d *DeviceLayer) forward(msg model.NoteMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active[msg.Device] {
		return
	}
	d.dispatch(msg)
}

func (d *DeviceLayer) dispatch(msg model.NoteMessage) {
	if !msg.On {
		d.log.WithFields(logrus.Fields{"device": msg.Device, "pitch": msg.Pitch}).Debug("note off")
	}
	for _, sub := range d.subscribers {
		sub.NotifyNote(msg)
	}
}

// Devices returns every discovered device with its active flag, in discovery order.
func (d *DeviceLayer) Devices() []model.Device {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]model.Device, 0, len(d.names))
	for _, name := range d.names {
		res = append(res, model.Device{Name: name, Active: d.active[name]})
	}
	return res
}

func (d *DeviceLayer) ActiveNames() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var res []string
	for _, name := range d.names {
		if d.active[name] {
			res = append(res, name)
		}
	}
	return res
}

// Close stops every subscription and releases the platform.
func (d *DeviceLayer) Close() error {
	d.reconfigure.Lock()
	defer d.reconfigure.Unlock()

	d.mu.Lock()
	old := d.detach()
	d.mu.Unlock()
	stopAll(old)

	if d.platform == nil {
		return nil
	}
	return d.platform.Close()
}
