//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/tonalpalette/cmd"
	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/midi/miditest"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/pipeline"
	"github.com/jsphweid/tonalpalette/settings"
)

var (
	platform     *miditest.Platform
	p            *pipeline.Pipeline
	router       http.Handler
	settingsPath string
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "tonalpalette")
	if err != nil {
		panic(err.Error())
	}
	settingsPath = filepath.Join(dir, "settings.json")

	controls := config.Default()
	controls.PersistDebounce = 10 * time.Millisecond
	platform = miditest.NewPlatform("keys", "pads")
	p = pipeline.New(controls, platform, settings.NewFileStore(settingsPath), logrus.NewEntry(logrus.New()))
	if _, err := p.Start(); err != nil {
		panic(err.Error())
	}
	router = cmd.NewRouter(p)

	exitVal := m.Run()

	_ = p.Close()
	_ = os.RemoveAll(dir)
	os.Exit(exitVal)
}

func request(method, path string, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err.Error())
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Result()
}

func decode(resp *http.Response, v any) {
	respBody, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(respBody, v); err != nil {
		panic(err.Error())
	}
}

func TestCMajorTriadE2E(t *testing.T) {
	keys := platform.Port("keys")
	keys.NoteOn(60, 90)
	keys.NoteOn(64, 90)
	keys.NoteOn(67, 90)

	resp := request(http.MethodGet, "/estimation", nil)

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 200)

	var est model.Estimation
	decode(resp, &est)
	assert.Equal(est.Prediction, model.KeyScore{Tonic: 0, Name: "C", Score: 3})
	assert.Equal(est.Results[1].Tonic, 5)
	assert.Equal(est.Results[2].Tonic, 7)
}

func TestSelectDevicesE2E(t *testing.T) {
	resp := request(http.MethodPut, "/devices", model.DevicesRequestBody{Devices: []string{"pads", "unplugged"}})

	assert := assert.New(t)
	assert.Equal(resp.StatusCode, 200)

	var devices []model.Device
	decode(resp, &devices)
	assert.Equal(devices, []model.Device{{Name: "keys"}, {Name: "pads", Active: true}})

	// keys is no longer listened to
	platform.Port("keys").NoteOn(66, 90)
	var est model.Estimation
	decode(request(http.MethodGet, "/estimation", nil), &est)
	assert.Equal(est.Prediction, model.KeyScore{Tonic: 0, Name: "C", Score: 3})

	assert.Eventually(func() bool {
		stored, found, err := settings.NewFileStore(settingsPath).LoadDevices()
		return err == nil && found && len(stored) == 1 && stored[0] == "pads"
	}, time.Second, 10*time.Millisecond)
}

func TestWindowAndParticlesE2E(t *testing.T) {
	assert := assert.New(t)

	resp := request(http.MethodPut, "/window", model.WindowRequestBody{Size: 3})
	assert.Equal(resp.StatusCode, 200)
	var est model.Estimation
	decode(resp, &est)
	assert.Equal(est.Prediction.Score, 0.0)

	assert.Equal(request(http.MethodPost, "/clear", nil).StatusCode, 204)

	pads := platform.Port("pads")
	pads.NoteOn(62, 90)
	pads.NoteOn(66, 90)
	pads.NoteOn(69, 90)
	p.Tick()

	decode(request(http.MethodGet, "/estimation", nil), &est)
	assert.Equal(est.Prediction, model.KeyScore{Tonic: 2, Name: "D", Score: 3})

	var frame model.Frame
	decode(request(http.MethodGet, "/entities", nil), &frame)
	assert.Len(frame.Particles, 3)
	for _, particle := range frame.Particles {
		assert.Equal(particle.Group, "circles")
	}

	var controls config.Controls
	decode(request(http.MethodGet, "/controls", nil), &controls)
	assert.Equal(controls.WindowSize, 3)
}
