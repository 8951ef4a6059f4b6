package settings

// Store persists the names of the selected MIDI input devices between runs.
// found is false when nothing has been saved yet, which callers treat as
// "select every device".
type Store interface {
	LoadDevices() (names []string, found bool, err error)
	SaveDevices(names []string) error
}
