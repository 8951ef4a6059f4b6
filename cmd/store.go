package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/jsphweid/tonalpalette/constants"
	"github.com/jsphweid/tonalpalette/settings"
)

var storeKind string

func bindStoreFlag(fs *pflag.FlagSet) {
	fs.StringVar(&storeKind, "store", "file", "where the device selection is kept (file, dynamodb, none)")
}

func openStore() (settings.Store, error) {
	switch storeKind {
	case "file":
		return settings.NewFileStore(constants.GetSettingsPath()), nil
	case "dynamodb":
		s, err := settings.NewDynamoStore(constants.GetDynamoEndpoint(), constants.GetDynamoTable())
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none":
		return nil, nil
	}
	return nil, errors.Errorf("unknown store %q", storeKind)
}
