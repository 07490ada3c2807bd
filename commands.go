package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/boardroomlabs/speakermap/orchestrator"
	"github.com/boardroomlabs/speakermap/pseudo"
	"github.com/boardroomlabs/speakermap/turns"
)

func processCmd() *cobra.Command {
	var id, lang string
	var gap float64

	cmd := &cobra.Command{
		Use:   "process <audio>",
		Short: "Transcribe, diarize and segment one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			audio := args[0]
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(audio), filepath.Ext(audio))
			}
			if gap > 0 {
				conf.Segmenter.Gap = gap
			}

			p := orchestrator.NewPipeline(conf)
			res, err := p.Run(cmd.Context(), audio, id, lang)
			if err != nil {
				return err
			}
			dir, err := orchestrator.Persist(conf.Paths.Outputs, res)
			if err != nil {
				return err
			}
			fmt.Println(turns.ToText(res.Turns))
			log.WithField("dir", dir).Info("session exports written")
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "recording ID (default: audio file stem)")
	cmd.Flags().StringVar(&lang, "lang", "", "language code (default: auto-detect)")
	cmd.Flags().Float64Var(&gap, "gap", 0, "turn merge gap tolerance in seconds")
	return cmd
}

func codesCmd() *cobra.Command {
	var book, out string
	var mentors, founders, guests []string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Ensure pseudonym codes for names and save the working copy",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := pseudo.LoadBook(book)
			if err != nil {
				return err
			}
			reg := pseudo.NewRegistry(tables)

			batches := []struct {
				cat   pseudo.Category
				names []string
			}{
				{pseudo.Mentor, mentors},
				{pseudo.Founder, founders},
				{pseudo.Guest, guests},
			}
			updated := false
			for _, b := range batches {
				asg, err := reg.EnsureCodes(b.cat, b.names)
				if err != nil {
					return err
				}
				for _, a := range asg {
					updated = true
					status := "new"
					if a.Existing {
						status = "existing"
					}
					fmt.Printf("%-8s %-10s %-30s %s\n", b.cat, status, a.Name, a.Code)
				}
			}
			if !updated {
				log.Info("no names given; nothing to update")
				return nil
			}

			if out == "" {
				stem := strings.TrimSuffix(filepath.Base(book), filepath.Ext(book))
				out = filepath.Join(conf.Paths.Workdir, stem+"_working.xlsx")
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			return pseudo.SaveWorkingCopy(out, reg)
		},
	}
	cmd.Flags().StringVar(&book, "book", "", "path to the pseudonym workbook (.xlsx)")
	cmd.Flags().StringVar(&out, "out", "", "working copy path (default: under the workdir)")
	cmd.Flags().StringSliceVar(&mentors, "mentors", nil, "mentor names")
	cmd.Flags().StringSliceVar(&founders, "founders", nil, "founder names")
	cmd.Flags().StringSliceVar(&guests, "guests", nil, "guest names")
	cmd.MarkFlagRequired("book")
	return cmd
}

func finalizeCmd() *cobra.Command {
	var wordsPath, book, id, out, ledger string
	var assigns []string
	var gap float64

	cmd := &cobra.Command{
		Use:   "finalize",
		Short: "Substitute pseudonym codes and write the final artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(wordsPath)
			if err != nil {
				return err
			}
			var words []turns.Word
			if err := json.Unmarshal(data, &words); err != nil {
				return fmt.Errorf("parse %s: %w", wordsPath, err)
			}
			if id == "" {
				id = strings.TrimSuffix(filepath.Base(wordsPath), filepath.Ext(wordsPath))
			}
			if gap <= 0 {
				gap = conf.Segmenter.Gap
			}
			if gap <= 0 {
				gap = turns.DefaultGap
			}

			tables, err := pseudo.LoadBook(book)
			if err != nil {
				return err
			}
			reg := pseudo.NewRegistry(tables)

			assign, err := parseAssignments(assigns)
			if err != nil {
				return err
			}
			if ledger == "" {
				ledger = conf.Paths.Ledger
			}
			if out == "" {
				out = conf.Paths.Outputs
			}

			res := &orchestrator.Result{
				RecordingID: id,
				Words:       words,
				Turns:       turns.Merge(words, gap),
			}
			files, err := orchestrator.Finalize(res, assign, reg, out, ledger)
			if err != nil {
				return err
			}
			fmt.Println(files.Transcript)
			fmt.Println(files.Words)
			fmt.Println(files.Bundle)
			fmt.Println(files.Mapping)
			return nil
		},
	}
	cmd.Flags().StringVar(&wordsPath, "words", "", "words.json produced by the process command")
	cmd.Flags().StringVar(&book, "book", "", "path to the pseudonym workbook (.xlsx)")
	cmd.Flags().StringVar(&id, "id", "", "recording ID (default: words file stem)")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default: configured outputs)")
	cmd.Flags().StringVar(&ledger, "ledger", "", "persistent mapping ledger (.xlsx) to upsert")
	cmd.Flags().StringArrayVar(&assigns, "assign", nil, "slot assignment, e.g. SPEAKER_00=Mentor:Alice B (repeatable)")
	cmd.Flags().Float64Var(&gap, "gap", 0, "turn merge gap tolerance in seconds")
	cmd.MarkFlagRequired("words")
	cmd.MarkFlagRequired("book")
	return cmd
}

// parseAssignments turns "SPEAKER_00=Mentor:Alice B" strings into slot
// assignments.
func parseAssignments(specs []string) (map[string]orchestrator.SlotAssignment, error) {
	out := map[string]orchestrator.SlotAssignment{}
	for _, s := range specs {
		slot, rest, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("bad --assign %q (want SLOT=Category:Name)", s)
		}
		catStr, name, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("bad --assign %q (want SLOT=Category:Name)", s)
		}
		cat, err := parseCategory(catStr)
		if err != nil {
			return nil, fmt.Errorf("bad --assign %q: %w", s, err)
		}
		out[strings.TrimSpace(slot)] = orchestrator.SlotAssignment{Category: cat, Name: strings.TrimSpace(name)}
	}
	return out, nil
}

func parseCategory(s string) (pseudo.Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mentor", "mentors":
		return pseudo.Mentor, nil
	case "founder", "founders":
		return pseudo.Founder, nil
	case "guest", "guests":
		return pseudo.Guest, nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}
