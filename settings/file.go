package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jsphweid/tonalpalette/constants"
)

// FileStore keeps settings in a JSON object on disk, e.g.
//
//	{"midi devices": ["Launchkey MIDI", "IAC Bus 1"]}
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// read returns every top-level key undecoded so keys owned by others survive
// a save unchanged.
func (f *FileStore) read() (map[string]json.RawMessage, error) {
	res := make(map[string]json.RawMessage)
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return res, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading settings")
	}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, errors.Wrapf(err, "decoding settings file %s", f.Path)
	}
	return res, nil
}

func (f *FileStore) LoadDevices() ([]string, bool, error) {
	all, err := f.read()
	if err != nil {
		return nil, false, err
	}
	raw, ok := all[constants.DevicesSettingKey]
	if !ok {
		return nil, false, nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, false, errors.Wrapf(err, "decoding %q in %s", constants.DevicesSettingKey, f.Path)
	}
	if names == nil {
		names = []string{}
	}
	return names, true, nil
}

func (f *FileStore) SaveDevices(names []string) error {
	all, err := f.read()
	if err != nil {
		return err
	}
	if names == nil {
		names = []string{}
	}
	encoded, err := json.Marshal(names)
	if err != nil {
		return errors.Wrap(err, "encoding devices")
	}
	all[constants.DevicesSettingKey] = encoded

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return errors.Wrap(err, "creating settings dir")
	}
	// write then rename so a crash never leaves half a file behind
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, "writing settings")
	}
	return errors.Wrap(os.Rename(tmp, f.Path), "replacing settings")
}
