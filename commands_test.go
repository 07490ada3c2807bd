package main

import (
	"testing"

	"github.com/boardroomlabs/speakermap/pseudo"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{
		"SPEAKER_00=Mentor:Alice B",
		"SPEAKER_01=guests:Gina",
	})
	if err != nil {
		t.Fatal(err)
	}
	a := got["SPEAKER_00"]
	if a.Category != pseudo.Mentor || a.Name != "Alice B" {
		t.Errorf("SPEAKER_00 = %+v", a)
	}
	b := got["SPEAKER_01"]
	if b.Category != pseudo.Guest || b.Name != "Gina" {
		t.Errorf("SPEAKER_01 = %+v", b)
	}
}

func TestParseAssignmentsErrors(t *testing.T) {
	for _, bad := range []string{
		"SPEAKER_00",
		"SPEAKER_00=Alice",
		"SPEAKER_00=Wizard:Alice",
	} {
		if _, err := parseAssignments([]string{bad}); err == nil {
			t.Errorf("parseAssignments(%q) should fail", bad)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]pseudo.Category{
		"mentor":   pseudo.Mentor,
		"Mentors":  pseudo.Mentor,
		"FOUNDER":  pseudo.Founder,
		"founders": pseudo.Founder,
		"guest":    pseudo.Guest,
		" Guests ": pseudo.Guest,
	} {
		got, err := parseCategory(in)
		if err != nil {
			t.Errorf("parseCategory(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseCategory(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseCategory("other"); err == nil {
		t.Error("unknown category should fail")
	}
}
