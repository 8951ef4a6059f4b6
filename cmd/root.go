package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/tonalpalette/config"
)

var (
	logLevel    string
	controlsArg string
	logger      = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "tonalpalette",
	Short: "Estimates the key you are playing in",
	Long: `Listens to MIDI input, keeps a sliding window of the most recent notes
and ranks all 12 major keys by how many of those notes they contain.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&controlsArg, "config", "", "YAML file with controls")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadControls(cmd *cobra.Command) (*config.Controls, error) {
	c, err := config.Load(controlsArg)
	if err != nil {
		return nil, err
	}
	if err := c.ApplyFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func commandLog(component string) *logrus.Entry {
	return logrus.NewEntry(logger).WithField("cmd", component)
}
