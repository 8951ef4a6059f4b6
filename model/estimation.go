package model

type KeyScore struct {
	Tonic int     `json:"tonic"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Estimation is a ranked snapshot of all 12 tonics. Prediction is Results[0].
type Estimation struct {
	Prediction KeyScore   `json:"prediction"`
	Results    []KeyScore `json:"results"`
}
