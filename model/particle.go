package model

// ParticleView is the read-only state of a live particle handed to renderers.
type ParticleView struct {
	ID      string  `json:"id"`
	Group   string  `json:"group"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Radius  float64 `json:"radius"`
	Pitch   uint8   `json:"pitch"`
	Caption string  `json:"caption"`
	Color   HSLA    `json:"color"`
}

type HSLA struct {
	Hue        float64 `json:"h"`
	Saturation float64 `json:"s"`
	Lightness  float64 `json:"l"`
	Alpha      float64 `json:"a"`
}

type Frame struct {
	BackgroundHue float64        `json:"background_hue"`
	Particles     []ParticleView `json:"particles"`
}
