package tonal

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/constants"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/util"
)

// Observer receives every note the estimator absorbed together with the
// estimation computed right after absorbing it.
type Observer interface {
	NotifyEstimation(msg model.NoteMessage, est model.Estimation)
}

// Estimator keeps a bounded FIFO window of recent notes and, for every tonic,
// the summed weight of the window's notes that are diatonic to it. The
// histogram is maintained incrementally: O(12) per note regardless of window
// size.
type Estimator struct {
	controls    *config.Controls
	windowSize  int
	window      []model.NoteEvent
	counter     [constants.NumPitchClasses]float64
	estimation  model.Estimation
	subscribers []Observer
	log         *logrus.Entry
}

func New(controls *config.Controls, log *logrus.Entry) *Estimator {
	e := &Estimator{
		controls:   controls,
		windowSize: controls.WindowSize,
		log:        log.WithField("component", "tonal"),
	}
	e.estimation = e.Estimate()
	return e
}

// PitchClass reduces any integer pitch to [0,11].
func PitchClass(pitch int) int {
	pc := pitch % constants.NumPitchClasses
	if pc < 0 {
		pc += constants.NumPitchClasses
	}
	return pc
}

// IsDiatonic reports whether pitchClass belongs to the major scale rooted at tonic.
func IsDiatonic(tonic, pitchClass int) bool {
	return constants.MajorScale[PitchClass(pitchClass-tonic)]
}

func (e *Estimator) Update(pitchClass int, weight float64) {
	pc := PitchClass(pitchClass)
	e.apply(pc, weight)
	e.window = append(e.window, model.NoteEvent{PitchClass: pc, Weight: weight})

	if len(e.window) > e.windowSize {
		oldest := e.window[0]
		e.window = e.window[1:]
		e.apply(oldest.PitchClass, -oldest.Weight)
	}
}

func (e *Estimator) apply(pc int, weight float64) {
	for tonic := 0; tonic < constants.NumPitchClasses; tonic++ {
		if IsDiatonic(tonic, pc) {
			e.counter[tonic] += weight
		}
	}
}

// Estimate ranks all tonics by score, highest first. Equal scores keep
// ascending tonic order.
func (e *Estimator) Estimate() model.Estimation {
	results := make([]model.KeyScore, constants.NumPitchClasses)
	for tonic := range results {
		results[tonic] = model.KeyScore{
			Tonic: tonic,
			Name:  constants.KeyNames[tonic],
			Score: e.counter[tonic],
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return model.Estimation{Prediction: results[0], Results: results}
}

// Reset drops the whole window and zeroes the histogram.
func (e *Estimator) Reset() {
	e.window = nil
	e.counter = [constants.NumPitchClasses]float64{}
	e.estimation = e.Estimate()
}

// SetWindowSize changes the capacity without touching the current window;
// callers are expected to Reset afterwards. n must be positive.
func (e *Estimator) SetWindowSize(n int) {
	e.windowSize = n
}

func (e *Estimator) WindowSize() int {
	return e.windowSize
}

func (e *Estimator) Window() []model.NoteEvent {
	res := make([]model.NoteEvent, len(e.window))
	copy(res, e.window)
	return res
}

func (e *Estimator) Counter() [constants.NumPitchClasses]float64 {
	return e.counter
}

// Estimation returns the estimate computed after the most recent note.
func (e *Estimator) Estimation() model.Estimation {
	return copyEstimation(e.estimation)
}

func (e *Estimator) AddSubscriber(o Observer) {
	e.subscribers = append(e.subscribers, o)
}

func (e *Estimator) weight(msg model.NoteMessage) float64 {
	if !e.controls.WeightByVelocity {
		return 1
	}
	return util.Clamp(float64(msg.Velocity)/127, .01, 1)
}

// NotifyNote absorbs a note-on and pushes the new estimation downstream.
// Note-offs are logged and dropped.
func (e *Estimator) NotifyNote(msg model.NoteMessage) {
	if !msg.On {
		e.log.WithFields(logrus.Fields{"device": msg.Device, "pitch": msg.Pitch}).Debug("note off")
		return
	}
	e.Update(int(msg.Pitch), e.weight(msg))
	e.estimation = e.Estimate()
	e.log.WithFields(logrus.Fields{
		"device":     msg.Device,
		"pitch":      msg.Pitch,
		"prediction": e.estimation.Prediction.Name,
	}).Debug("note on")
	for _, sub := range e.subscribers {
		sub.NotifyEstimation(msg, copyEstimation(e.estimation))
	}
}

func copyEstimation(est model.Estimation) model.Estimation {
	results := make([]model.KeyScore, len(est.Results))
	copy(results, est.Results)
	return model.Estimation{Prediction: est.Prediction, Results: results}
}
