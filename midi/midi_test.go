package midi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/tonalpalette/model"
)

func TestExtractNotesMergesTracksByTick(t *testing.T) {
	var melody, bass smf.Track
	melody.Add(0, gomidi.NoteOn(0, 64, 90))
	melody.Add(96, gomidi.NoteOff(0, 64))
	melody.Add(0, gomidi.NoteOn(0, 67, 90))
	melody.Close(0)

	bass.Add(48, gomidi.NoteOn(1, 36, 70))
	bass.Add(48, gomidi.NoteOff(1, 36))
	bass.Close(0)

	s := smf.New()
	s.Tracks = append(s.Tracks, melody, bass)

	notes := ExtractNotes(s, "song.mid")

	assert.Equal(t, []model.NoteMessage{
		{Device: "song.mid#0", Channel: 0, Pitch: 64, Velocity: 90, On: true},
		{Device: "song.mid#1", Channel: 1, Pitch: 36, Velocity: 70, On: true},
		{Device: "song.mid#0", Channel: 0, Pitch: 64},
		{Device: "song.mid#1", Channel: 1, Pitch: 36},
		{Device: "song.mid#0", Channel: 0, Pitch: 67, Velocity: 90, On: true},
	}, notes)
}

func TestReadMidiFileMissing(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestReadMidiFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.mid")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a midi file"), 0644))

	s, err := ReadMidiFile(path)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func scale() *smf.SMF {
	var track smf.Track
	track.Add(0, gomidi.ProgramChange(0, 4))
	for _, key := range []uint8{60, 62, 64, 65} {
		track.Add(0, gomidi.NoteOn(0, key, 80))
		track.Add(96, gomidi.NoteOff(0, key))
	}
	track.Close(0)
	s := smf.New()
	s.Tracks = append(s.Tracks, track)
	return s
}

func pitches(notes []model.NoteMessage) []uint8 {
	var res []uint8
	for _, n := range notes {
		if n.On {
			res = append(res, n.Pitch)
		}
	}
	return res
}

func TestExcerptFromTick(t *testing.T) {
	notes := ExtractNotes(Excerpt(scale(), 192, 0), "scale")
	assert.Equal(t, []uint8{64, 65}, pitches(notes))
	assert.Len(t, notes, 5)
}

func TestExcerptLimit(t *testing.T) {
	ex := Excerpt(scale(), 0, 3)
	notes := ExtractNotes(ex, "scale")

	assert := assert.New(t)
	assert.Equal([]uint8{60, 62}, pitches(notes))
	assert.Len(notes, 3)
	// program change is kept
	assert.True(ex.Tracks[0][0].Message.Is(gomidi.ProgramChangeMsg))
}

func TestExcerptKeepsPositions(t *testing.T) {
	full := scale()
	ex := Excerpt(full, 96, 0)

	var absTicks int64
	for _, event := range ex.Tracks[0] {
		absTicks += int64(event.Delta)
		var ch, key, vel uint8
		if event.Message.GetNoteOn(&ch, &key, &vel) && key == 62 {
			break
		}
	}
	assert.Equal(t, int64(96), absTicks)
}
