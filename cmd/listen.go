package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/pipeline"
	"github.com/jsphweid/tonalpalette/settings"
)

var listenAddr string

func init() {
	rootCmd.AddCommand(listenCmd)
	config.Default().BindFlags(listenCmd.Flags())
	bindStoreFlag(listenCmd.Flags())
	listenCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "address of the HTTP API")
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listens to MIDI input and serves the estimation",
	Long: `Listens to the selected MIDI inputs, runs the particle scene and serves
estimations, particles and device settings over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		controls, err := loadControls(cmd)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		return listen(controls, store)
	},
}

func listen(controls *config.Controls, store settings.Store) error {
	entry := commandLog("listen")

	platform, err := midi.NewRtmidiPlatform()
	if err != nil {
		// keep serving; no notes will ever arrive
		entry.WithError(err).Error("MIDI is unavailable")
	}

	p := pipeline.New(controls, platform, store, entry)
	defer func() {
		if err := p.Close(); err != nil {
			entry.WithError(err).Error("could not close pipeline")
		}
	}()

	selected, err := p.Start()
	if err != nil {
		entry.WithError(err).Error("no MIDI input will be used")
	} else {
		entry.WithField("devices", selected).Info("using devices")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go p.Run(ctx)
	return serve(ctx, listenAddr, p)
}
