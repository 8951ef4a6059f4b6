package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Excerpt returns a copy of s whose tracks only keep note messages from
// fromTick on, at most limit of them per track (0 means no limit). Other
// events are kept so tempo and program changes still apply; the notes they
// displace keep their absolute position.
func Excerpt(s *smf.SMF, fromTick int64, limit int) *smf.SMF {
	res := smf.New()
	res.TimeFormat = s.TimeFormat

	for _, track := range s.Tracks {
		var kept smf.Track
		var absTicks, lastTicks int64
		var numNotes int
		truncated := false
	TrackEventLoop:
		for _, event := range track {
			absTicks += int64(event.Delta)
			isNote := event.Message.Is(gomidi.NoteOnMsg) || event.Message.Is(gomidi.NoteOffMsg)
			if isNote && absTicks < fromTick {
				continue
			}
			if isNote && limit > 0 && numNotes >= limit {
				truncated = true
				break TrackEventLoop
			}
			if isNote {
				numNotes++
			}
			kept = append(kept, smf.Event{Delta: uint32(absTicks - lastTicks), Message: event.Message})
			lastTicks = absTicks
		}
		if truncated {
			kept.Close(0)
		}
		res.Tracks = append(res.Tracks, kept)
	}
	return res
}
