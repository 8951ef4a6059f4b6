package model

// NoteEvent is a single contribution to the estimator's window.
type NoteEvent struct {
	PitchClass int
	Weight     float64
}

// NoteMessage is a note event normalized by the device layer.
type NoteMessage struct {
	Device   string `json:"device"`
	Channel  uint8  `json:"channel"`
	Pitch    uint8  `json:"pitch"`
	Velocity uint8  `json:"velocity"`
	On       bool   `json:"on"`
}
