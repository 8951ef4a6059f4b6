package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/tonalpalette/model"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Errorf("parsing midi file %s: %v", filepath, r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

type timedNote struct {
	absTicks int64
	msg      model.NoteMessage
}

// ExtractNotes merges all tracks into one stream of note messages ordered by
// absolute tick. At equal ticks note-offs come first, then track order.
func ExtractNotes(s *smf.SMF, source string) []model.NoteMessage {
	var notes []timedNote
	for i, track := range s.Tracks {
		device := fmt.Sprintf("%s#%d", source, i)
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				msg := model.NoteMessage{Device: device, Channel: channel, Pitch: key, Velocity: velocity, On: velocity > 0}
				notes = append(notes, timedNote{absTicks: absTicks, msg: msg})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				msg := model.NoteMessage{Device: device, Channel: channel, Pitch: key}
				notes = append(notes, timedNote{absTicks: absTicks, msg: msg})
			}
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].absTicks != notes[j].absTicks {
			return notes[i].absTicks < notes[j].absTicks
		}
		return !notes[i].msg.On && notes[j].msg.On
	})

	res := make([]model.NoteMessage, len(notes))
	for i, n := range notes {
		res[i] = n.msg
	}
	return res
}
