package midi

import (
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"github.com/jsphweid/tonalpalette/model"
)

// Port is a single MIDI input as seen by the device layer.
type Port interface {
	Name() string
	// Listen starts delivering normalized note events to recv until stop is called.
	Listen(recv func(model.NoteMessage)) (stop func(), err error)
}

// Platform is the MIDI binding that enumerates inputs.
type Platform interface {
	Inputs() ([]Port, error)
	Close() error
}

type rtmidiPlatform struct {
	drv *rtmididrv.Driver
}

// NewRtmidiPlatform enables the system MIDI subsystem through rtmidi.
func NewRtmidiPlatform() (Platform, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, errors.Wrapf(ErrPlatformEnable, "rtmidi: %v", err)
	}
	return &rtmidiPlatform{drv: drv}, nil
}

func (p *rtmidiPlatform) Inputs() ([]Port, error) {
	ins, err := p.drv.Ins()
	if err != nil {
		return nil, errors.Wrap(err, "listing inputs")
	}
	res := make([]Port, 0, len(ins))
	for _, in := range ins {
		res = append(res, &rtmidiPort{in: in})
	}
	return res, nil
}

func (p *rtmidiPlatform) Close() error {
	return p.drv.Close()
}

type rtmidiPort struct {
	in drivers.In
}

func (p *rtmidiPort) Name() string {
	return p.in.String()
}

func (p *rtmidiPort) Listen(recv func(model.NoteMessage)) (func(), error) {
	if err := p.in.Open(); err != nil {
		return nil, errors.Wrapf(err, "open %q", p.Name())
	}
	stop, err := gomidi.ListenTo(p.in, func(msg gomidi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			recv(model.NoteMessage{Channel: ch, Pitch: key, Velocity: vel, On: true})
		case msg.GetNoteEnd(&ch, &key):
			recv(model.NoteMessage{Channel: ch, Pitch: key})
		default:
			// ignore
		}
	})
	if err != nil {
		_ = p.in.Close()
		return nil, errors.Wrapf(err, "listen %q", p.Name())
	}
	return func() {
		stop()
		_ = p.in.Close()
	}, nil
}
