package cmd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/midi/miditest"
	"github.com/jsphweid/tonalpalette/model"
)

func TestListDevicesUsesPersistedSelection(t *testing.T) {
	platform := miditest.NewPlatform("A", "B", "C")
	store := miditest.NewStore([]string{"B", "D"}, true)

	devices, err := listDevices(platform, store, false, nil)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]model.Device{{Name: "A"}, {Name: "B", Active: true}, {Name: "C"}}, devices)
	assert.True(platform.Closed)
	assert.Equal(0, platform.Port("B").Listeners())
}

func TestListDevicesSavesOverride(t *testing.T) {
	platform := miditest.NewPlatform("A", "B")
	store := miditest.NewStore(nil, false)

	devices, err := listDevices(platform, store, true, []string{"A", "nope"})
	require.NoError(t, err)

	names, saves := store.Saved()
	assert := assert.New(t)
	assert.Equal([]model.Device{{Name: "A", Active: true}, {Name: "B"}}, devices)
	assert.Equal([]string{"A"}, names)
	assert.Equal(1, saves)
}

func TestListDevicesWithoutInputs(t *testing.T) {
	_, err := listDevices(miditest.NewPlatform(), nil, false, nil)
	assert.True(t, errors.Is(err, midi.ErrNoDevice))
}
