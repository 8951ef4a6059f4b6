package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsphweid/tonalpalette/config"
	"github.com/jsphweid/tonalpalette/midi"
	"github.com/jsphweid/tonalpalette/model"
	"github.com/jsphweid/tonalpalette/pipeline"
)

var (
	replayRanking bool
	replayFrom    int64
	replayLimit   int
)

func init() {
	rootCmd.AddCommand(replayCmd)
	config.Default().BindFlags(replayCmd.Flags())
	replayCmd.Flags().BoolVar(&replayRanking, "ranking", false, "print the full ranking at the end")
	replayCmd.Flags().Int64Var(&replayFrom, "from", 0, "skip notes before this tick")
	replayCmd.Flags().IntVar(&replayLimit, "limit", 0, "maximum number of note messages per track, 0 for all")
}

var replayCmd = &cobra.Command{
	Use:   "replay <file.mid>",
	Short: "Runs the estimator over a MIDI file",
	Long:  `Feeds every note of a MIDI file through the estimator and prints each change of the predicted key.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		controls, err := loadControls(cmd)
		if err != nil {
			return err
		}
		parsed, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		if replayFrom > 0 || replayLimit > 0 {
			parsed = midi.Excerpt(parsed, replayFrom, replayLimit)
		}
		notes := midi.ExtractNotes(parsed, filepath.Base(args[0]))
		est := replay(controls, notes, func(i int, msg model.NoteMessage, est model.Estimation) {
			fmt.Printf("%6d  %-4s -> %s (%.2f)\n", i, pitchLabel(msg.Pitch), est.Prediction.Name, est.Prediction.Score)
		})
		if replayRanking {
			for _, k := range est.Results {
				fmt.Printf("%-3s %.2f\n", k.Name, k.Score)
			}
		}
		return nil
	},
}

// replay runs notes through a pipeline without MIDI input and reports every
// note-on that changes the predicted key.
func replay(controls *config.Controls, notes []model.NoteMessage, changed func(i int, msg model.NoteMessage, est model.Estimation)) model.Estimation {
	p := pipeline.New(controls, nil, nil, commandLog("replay"))
	defer p.Close()

	last := -1
	for i, msg := range notes {
		p.NotifyNote(msg)
		if !msg.On {
			continue
		}
		est := p.Estimation()
		if est.Prediction.Tonic != last {
			last = est.Prediction.Tonic
			changed(i, msg, est)
		}
	}
	return p.Estimation()
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func pitchLabel(pitch uint8) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], int(pitch)/12-1)
}
