package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boardroomlabs/speakermap/pseudo"
	"github.com/boardroomlabs/speakermap/turns"
)

func testResult() *Result {
	words := []turns.Word{
		{Speaker: "SPEAKER_00", Start: 0, End: 1, Text: "hello"},
		{Speaker: "SPEAKER_01", Start: 1.5, End: 2, Text: "hi"},
	}
	return &Result{
		RecordingID: "rec1",
		Words:       words,
		Turns:       turns.Merge(words, turns.DefaultGap),
	}
}

func testRegistry() *pseudo.Registry {
	return pseudo.NewRegistry(map[pseudo.Category][]pseudo.Entry{
		pseudo.Mentor: {{Name: "Alice", Code: "M1000"}},
		pseudo.Guest:  {{Name: "Gina", Code: "G3000"}},
	})
}

func TestFinalizeWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	assign := map[string]SlotAssignment{
		"SPEAKER_00": {Category: pseudo.Mentor, Name: "Alice"},
		"SPEAKER_01": {Category: pseudo.Guest, Name: "Gina"},
	}
	files, err := Finalize(testResult(), assign, testRegistry(), dir, "")
	if err != nil {
		t.Fatal(err)
	}

	txt, err := os.ReadFile(files.Transcript)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(txt), "M1000: hello") || !strings.Contains(string(txt), "G3000: hi") {
		t.Fatalf("transcript = %q", txt)
	}

	data, err := os.ReadFile(files.Words)
	if err != nil {
		t.Fatal(err)
	}
	var words []turns.Word
	if err := json.Unmarshal(data, &words); err != nil {
		t.Fatal(err)
	}
	if words[0].Speaker != "M1000" || words[1].Speaker != "G3000" {
		t.Fatalf("words = %+v", words)
	}

	for _, p := range []string{files.Bundle, files.Mapping} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %s: %v", p, err)
		}
	}
}

func TestFinalizeUpsertsLedger(t *testing.T) {
	dir := t.TempDir()
	ledger := filepath.Join(dir, "ledger", "mapping.xlsx")
	assign := map[string]SlotAssignment{
		"SPEAKER_00": {Category: pseudo.Mentor, Name: "Alice"},
		"SPEAKER_01": {Category: pseudo.Guest, Name: "Gina"},
	}
	if _, err := Finalize(testResult(), assign, testRegistry(), dir, ledger); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(ledger); err != nil {
		t.Fatalf("ledger not written: %v", err)
	}
}

func TestFinalizeRejectsIncompleteMapping(t *testing.T) {
	dir := t.TempDir()
	assign := map[string]SlotAssignment{
		"SPEAKER_00": {Category: pseudo.Mentor, Name: "Alice"},
		// SPEAKER_01 missing
	}
	_, err := Finalize(testResult(), assign, testRegistry(), dir, "")
	if err == nil || !strings.Contains(err.Error(), "SPEAKER_01") {
		t.Fatalf("err = %v, want mention of SPEAKER_01", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "rec1_final.txt")); statErr == nil {
		t.Error("artifacts written despite incomplete mapping")
	}
}

func TestFinalizeRejectsUnknownName(t *testing.T) {
	dir := t.TempDir()
	assign := map[string]SlotAssignment{
		"SPEAKER_00": {Category: pseudo.Mentor, Name: "Alice"},
		"SPEAKER_01": {Category: pseudo.Founder, Name: "Nobody"},
	}
	_, err := Finalize(testResult(), assign, testRegistry(), dir, "")
	if err == nil || !strings.Contains(err.Error(), "Nobody") {
		t.Fatalf("err = %v, want mention of the unresolved name", err)
	}
}
