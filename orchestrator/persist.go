package orchestrator

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boardroomlabs/speakermap/turns"
)

// mkSessionDir creates a fresh output directory for one run. The uuid suffix
// keeps back-to-back runs of the same recording from colliding.
func mkSessionDir(outputsRoot, recordingID string) (string, error) {
	ts := time.Now().Format("20060102-150405")
	dir := filepath.Join(outputsRoot, recordingID+"_"+ts+"_"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTurnsCSV(path string, ts []turns.Turn) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"speaker", "start", "end", "text"}); err != nil {
		return err
	}
	for _, t := range ts {
		rec := []string{
			t.Speaker,
			strconv.FormatFloat(t.Start, 'f', -1, 64),
			strconv.FormatFloat(t.End, 'f', -1, 64),
			strings.ReplaceAll(t.Text, "\n", " "),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// Persist writes the session exports (words.json, turns.csv, transcript.txt)
// into a fresh session directory and returns its path.
func Persist(outputsRoot string, res *Result) (string, error) {
	dir, err := mkSessionDir(outputsRoot, res.RecordingID)
	if err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(dir, "words.json"), res.Words); err != nil {
		return "", err
	}
	if err := writeTurnsCSV(filepath.Join(dir, "turns.csv"), res.Turns); err != nil {
		return "", err
	}
	txt := turns.ToText(res.Turns)
	if err := os.WriteFile(filepath.Join(dir, "transcript.txt"), []byte(txt), 0o644); err != nil {
		return "", err
	}
	return dir, nil
}
