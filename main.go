package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/boardroomlabs/speakermap/config"
)

var conf *cfg.Root

func main() {
	root := &cobra.Command{
		Use:   "speakermap",
		Short: "Transcription, diarization and speaker mapping tool",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := cfg.Load()
			if err != nil {
				return err
			}
			conf = c
			if lvl, err := log.ParseLevel(c.Pipeline.LogLvl); err == nil {
				log.SetLevel(lvl)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(processCmd(), codesCmd(), finalizeCmd())

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
