package palette

import (
	"math"

	"github.com/jsphweid/tonalpalette/constants"
)

// hues around the circle of fifths, as fractions of a turn
var hues = [constants.NumPitchClasses]float64{
	.2199, .1480, .1273, .0886, .0571, .9993,
	.9063, .7800, .6463, .4797, .5332, .4329,
}

// PitchToHue maps a pitch (or tonic) to a hue in degrees. Keys a fifth apart
// get neighbouring hues.
func PitchToHue(pitch int) float64 {
	return hues[pitchClass(pitch*7)] * 360
}

// StepHue moves current towards target by speed degrees along the shorter
// arc. Within speed of the target it stays put.
func StepHue(current, target, speed float64) float64 {
	delta := math.Mod(target-current+360, 360)
	if delta <= speed || 360-delta <= speed {
		return current
	}
	sign := 1.0
	if delta >= 180 {
		sign = -1
	}
	return math.Mod(current+sign*speed+3600, 360)
}

var (
	flats  = [constants.NumPitchClasses]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
	sharps = [constants.NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

	// C mixes both: flats for the black keys except F#
	mixed = [constants.NumPitchClasses]string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}
)

// noteNames[tonic][pitchClass] spells a pitch class in the major key of tonic.
var noteNames = [constants.NumPitchClasses][constants.NumPitchClasses]string{
	mixed,  // C
	flats,  // Db
	sharps, // D
	flats,  // Eb
	sharps, // E
	flats,  // F
	flats,  // Gb
	sharps, // G
	flats,  // Ab
	sharps, // A
	flats,  // Bb
	sharps, // B
}

// NoteName spells pitch the way it would be written in the major key of tonic.
func NoteName(tonic, pitch int) string {
	return noteNames[pitchClass(tonic)][pitchClass(pitch)]
}

func pitchClass(p int) int {
	pc := p % constants.NumPitchClasses
	if pc < 0 {
		pc += constants.NumPitchClasses
	}
	return pc
}
