package constants

import "os"

func GetSettingsPath() string {
	path := os.Getenv("TONAL_SETTINGS_PATH")
	if path != "" {
		return path
	}
	return "./settings.json"
}

func GetDynamoEndpoint() string {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetDynamoTable() string {
	table := os.Getenv("DYNAMODB_TABLE")
	if table != "" {
		return table
	}
	return "tonalpalette-settings"
}

const NumPitchClasses = 12

const DefaultWindowSize = 15

// index 0 is the tonic; W-W-H-W-W-W-H
var MajorScale = [NumPitchClasses]bool{true, false, true, false, true, true, false, true, false, true, false, true}

var KeyNames = [NumPitchClasses]string{"C", "Db", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}

// key under which the active device names are persisted
const DevicesSettingKey = "midi devices"

const ParticleGroup = "circles"
