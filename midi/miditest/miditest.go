// Package miditest provides an in-memory MIDI platform for tests.
package miditest

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/model"
)

type Port struct {
	mu        sync.Mutex
	name      string
	listeners map[int]func(model.NoteMessage)
	next      int
	Fail      bool
}

func (p *Port) Name() string { return p.name }

func (p *Port) Listen(recv func(model.NoteMessage)) (func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return nil, errors.Errorf("%s is busy", p.name)
	}
	id := p.next
	p.next++
	p.listeners[id] = recv
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}, nil
}

// Listeners returns how many subscriptions are open on the port.
func (p *Port) Listeners() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.listeners)
}

// NoteOn plays a note-on into every open subscription.
func (p *Port) NoteOn(pitch, velocity uint8) {
	p.send(model.NoteMessage{Pitch: pitch, Velocity: velocity, On: true})
}

func (p *Port) NoteOff(pitch uint8) {
	p.send(model.NoteMessage{Pitch: pitch})
}

func (p *Port) send(msg model.NoteMessage) {
	p.mu.Lock()
	recvs := make([]func(model.NoteMessage), 0, len(p.listeners))
	for i := 0; i < p.next; i++ {
		if r, ok := p.listeners[i]; ok {
			recvs = append(recvs, r)
		}
	}
	p.mu.Unlock()
	for _, r := range recvs {
		r(msg)
	}
}

type Platform struct {
	ports  []*Port
	Err    error
	Closed bool
}

func NewPlatform(names ...string) *Platform {
	p := &Platform{}
	for _, name := range names {
		p.ports = append(p.ports, &Port{name: name, listeners: make(map[int]func(model.NoteMessage))})
	}
	return p
}

func (p *Platform) Inputs() ([]midi.Port, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	res := make([]midi.Port, len(p.ports))
	for i, port := range p.ports {
		res[i] = port
	}
	return res, nil
}

func (p *Platform) Close() error {
	p.Closed = true
	return nil
}

// Port returns the named port, or nil.
func (p *Platform) Port(name string) *Port {
	for _, port := range p.ports {
		if port.name == name {
			return port
		}
	}
	return nil
}

// Store is an in-memory settings.Store.
type Store struct {
	mu    sync.Mutex
	names []string
	found bool
	saves int
}

func NewStore(names []string, found bool) *Store {
	return &Store{names: names, found: found}
}

func (s *Store) LoadDevices() ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names, s.found, nil
}

func (s *Store) SaveDevices(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append([]string(nil), names...)
	s.found = true
	s.saves++
	return nil
}

// Saved returns the last saved names and how many saves happened.
func (s *Store) Saved() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names, s.saves
}
