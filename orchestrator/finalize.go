package orchestrator

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/boardroomlabs/speakermap/mapping"
	"github.com/boardroomlabs/speakermap/pseudo"
	"github.com/boardroomlabs/speakermap/turns"
)

// SlotAssignment maps one diarization slot to a person in the registry.
type SlotAssignment struct {
	Category pseudo.Category
	Name     string
}

// FinalFiles lists what Finalize wrote.
type FinalFiles struct {
	Transcript string
	Words      string
	Bundle     string
	Mapping    string
}

// Finalize substitutes each speaker slot with its registry-resolved code and
// writes the final artifacts: transcript, words JSON, a zip bundling both,
// and a one-row mapping workbook. When ledgerPath is set the persistent
// ledger is upserted as well. Nothing is written while any slot in the word
// stream lacks a fully resolved assignment.
func Finalize(res *Result, assign map[string]SlotAssignment, reg *pseudo.Registry, outDir, ledgerPath string) (*FinalFiles, error) {
	spkTags := turns.Speakers(res.Words)

	repl := map[string]string{}
	names := mapping.Row{}
	codes := mapping.Row{}
	canonical := make([]string, 0, len(spkTags))
	var missing []string
	for _, tag := range spkTags {
		idx, ok := turns.SpeakerIndex(tag)
		if !ok {
			return nil, fmt.Errorf("speaker tag %q has no ordinal", tag)
		}
		std := fmt.Sprintf("SPEAKER_%02d", idx)
		canonical = append(canonical, std)

		a, have := assign[tag]
		nm := strings.TrimSpace(a.Name)
		if !have || nm == "" {
			missing = append(missing, fmt.Sprintf("%s is not mapped", tag))
			continue
		}
		code, found := reg.Lookup(a.Category, nm)
		if !found {
			missing = append(missing, fmt.Sprintf("%s: no code assigned for %q in %s", tag, nm, a.Category))
			continue
		}
		repl[tag] = code
		names[std] = nm
		codes[std] = code
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("speaker mapping incomplete: %s", strings.Join(missing, "; "))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	finalTxt := turns.ToText(turns.SubstituteTurns(res.Turns, repl))
	finalWords := turns.Substitute(res.Words, repl)
	wordsJSON, err := json.MarshalIndent(finalWords, "", "  ")
	if err != nil {
		return nil, err
	}

	id := res.RecordingID
	files := &FinalFiles{
		Transcript: filepath.Join(outDir, id+"_final.txt"),
		Words:      filepath.Join(outDir, id+"_final_words.json"),
		Bundle:     filepath.Join(outDir, id+"_final.zip"),
		Mapping:    filepath.Join(outDir, id+"_speaker_mapping.xlsx"),
	}
	if err := os.WriteFile(files.Transcript, []byte(finalTxt), 0o644); err != nil {
		return nil, err
	}
	if err := os.WriteFile(files.Words, wordsJSON, 0o644); err != nil {
		return nil, err
	}
	if err := writeBundle(files.Bundle, map[string][]byte{
		id + "_final.txt":        []byte(finalTxt),
		id + "_final_words.json": wordsJSON,
	}); err != nil {
		return nil, err
	}
	if err := mapping.WriteSingle(files.Mapping, id, names, codes, canonical); err != nil {
		return nil, err
	}

	if ledgerPath != "" {
		if err := mapping.Upsert(ledgerPath, id, names, codes, canonical); err != nil {
			return nil, fmt.Errorf("ledger update failed: %w", err)
		}
	}
	log.WithFields(log.Fields{"id": id, "dir": outDir}).Info("final artifacts written")
	return files, nil
}

func writeBundle(path string, members map[string][]byte) error {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range members {
		w, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
