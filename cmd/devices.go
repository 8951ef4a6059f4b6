package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/settings"
)

var selectDevices []string

func init() {
	rootCmd.AddCommand(devicesCmd)
	bindStoreFlag(devicesCmd.Flags())
	devicesCmd.Flags().StringSliceVar(&selectDevices, "select", nil, "devices to use from now on")
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists MIDI inputs and which of them are used",
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := midi.NewRtmidiPlatform()
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		devices, err := listDevices(platform, store, cmd.Flags().Changed("select"), selectDevices)
		if err != nil {
			return err
		}
		for _, d := range devices {
			mark := " "
			if d.Active {
				mark = "x"
			}
			fmt.Printf("[%s] %s\n", mark, d.Name)
		}
		return nil
	},
}

// listDevices discovers inputs and applies either the given selection, which
// is then persisted, or the persisted one.
func listDevices(platform midi.Platform, store settings.Store, override bool, names []string) ([]model.Device, error) {
	d := midi.NewDeviceLayer(platform, commandLog("devices"))
	defer d.Close()

	if err := d.Discover(); err != nil {
		return nil, err
	}

	if override {
		if err := d.SetActiveDevices(names); err != nil {
			return nil, err
		}
		if store != nil {
			active := d.ActiveNames()
			if active == nil {
				active = []string{}
			}
			if err := store.SaveDevices(active); err != nil {
				return nil, err
			}
		}
		return d.Devices(), nil
	}

	var persisted []string
	found := false
	if store != nil {
		var err error
		persisted, found, err = store.LoadDevices()
		if err != nil {
			return nil, err
		}
	}
	if _, err := d.RestoreSelection(persisted, found); err != nil {
		return nil, err
	}
	return d.Devices(), nil
}
