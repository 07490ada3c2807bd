package pseudo

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeBook(t *testing.T, path string, sheets map[string][][]string, order []string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, name := range order {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatal(err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range sheets[name] {
			vals := make([]any, len(row))
			for j, v := range row {
				vals[j] = v
			}
			cellRef, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(name, cellRef, &vals); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestLoadBookNamedSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeBook(t, path, map[string][][]string{
		"Guests":  {{"Name", "Code"}, {"Gina", "G3333"}},
		"MENTORS": {{"Name", "Code"}, {"Alice", "M1000"}},
		"founder": {{"Name", "Code"}, {"Bob", "F2000"}},
	}, []string{"Guests", "MENTORS", "founder"})

	got, err := LoadBook(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got[Mentor], []Entry{{Name: "Alice", Code: "M1000"}}) {
		t.Errorf("mentors = %+v", got[Mentor])
	}
	if !reflect.DeepEqual(got[Founder], []Entry{{Name: "Bob", Code: "F2000"}}) {
		t.Errorf("founders = %+v", got[Founder])
	}
	if !reflect.DeepEqual(got[Guest], []Entry{{Name: "Gina", Code: "G3333"}}) {
		t.Errorf("guests = %+v", got[Guest])
	}
}

func TestLoadBookPositionalFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeBook(t, path, map[string][][]string{
		"First":  {{"Name", "Code"}, {"Alice", "M1000"}},
		"Second": {{"Name", "Code"}, {"Bob", "F2000"}},
	}, []string{"First", "Second"})

	got, err := LoadBook(path)
	if err != nil {
		t.Fatal(err)
	}
	if got[Mentor][0].Name != "Alice" {
		t.Errorf("mentors should come from the first sheet, got %+v", got[Mentor])
	}
	if got[Founder][0].Name != "Bob" {
		t.Errorf("founders should come from the second sheet, got %+v", got[Founder])
	}
	// only two sheets: guests reuse the founder sheet
	if got[Guest][0].Name != "Bob" {
		t.Errorf("guests should fall back to the previous sheet, got %+v", got[Guest])
	}
}

func TestLoadBookMissingFile(t *testing.T) {
	if _, err := LoadBook(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Fatal("expected an error for a missing workbook")
	}
}

func TestSaveWorkingCopyRoundTrip(t *testing.T) {
	r := NewRegistry(map[Category][]Entry{
		Mentor:  {{Name: "Zoe", Code: "M2000"}, {Name: "Alice", Code: "M1000"}},
		Founder: {{Name: "Bob", Code: "F2000"}},
	})
	path := filepath.Join(t.TempDir(), "working.xlsx")
	if err := SaveWorkingCopy(path, r); err != nil {
		t.Fatal(err)
	}

	got, err := LoadBook(path)
	if err != nil {
		t.Fatal(err)
	}
	// rows come back sorted by name
	want := []Entry{{Name: "Alice", Code: "M1000"}, {Name: "Zoe", Code: "M2000"}}
	if !reflect.DeepEqual(got[Mentor], want) {
		t.Errorf("mentors = %+v, want %+v", got[Mentor], want)
	}
	if !reflect.DeepEqual(got[Founder], []Entry{{Name: "Bob", Code: "F2000"}}) {
		t.Errorf("founders = %+v", got[Founder])
	}
	if len(got[Guest]) != 0 {
		t.Errorf("guests = %+v, want empty", got[Guest])
	}
}
