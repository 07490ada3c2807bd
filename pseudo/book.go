package pseudo

import (
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var sheetAliases = map[Category][]string{
	Mentor:  {"mentors", "mentor"},
	Founder: {"founders", "founder"},
	Guest:   {"guests", "guest"},
}

// LoadBook reads the pseudonym workbook and parses one table per category.
// Sheets are matched by name, case-insensitively; a missing name falls back
// to the sheet at the category's ordinal position, and past the end of the
// workbook the previous category's sheet is reused.
func LoadBook(path string) (map[Category][]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open pseudonym workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("pseudonym workbook %s has no sheets", path)
	}
	byLower := map[string]string{}
	for _, s := range sheets {
		byLower[strings.ToLower(s)] = s
	}

	out := map[Category][]Entry{}
	prev := sheets[0]
	for i, cat := range Categories {
		sheet := ""
		for _, alias := range sheetAliases[cat] {
			if s, ok := byLower[alias]; ok {
				sheet = s
				break
			}
		}
		if sheet == "" {
			if i < len(sheets) {
				sheet = sheets[i]
			} else {
				sheet = prev
			}
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		out[cat] = ParseSheet(rows)
		prev = sheet
	}
	return out, nil
}

// SaveWorkingCopy writes the registry's current tables to path as a fresh
// workbook: sheets Mentors, Founders, Guests, columns Code and Name, rows
// sorted by name. Called after every mutation batch so the file on disk
// always reflects the session.
func SaveWorkingCopy(path string, r *Registry) error {
	f := excelize.NewFile()
	defer f.Close()

	titles := map[Category]string{Mentor: "Mentors", Founder: "Founders", Guest: "Guests"}
	for i, cat := range Categories {
		sheet := titles[cat]
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}

		entries := append([]Entry(nil), r.Entries(cat)...)
		sort.SliceStable(entries, func(a, b int) bool { return entries[a].Name < entries[b].Name })

		if err := f.SetSheetRow(sheet, "A1", &[]any{"Code", "Name"}); err != nil {
			return fmt.Errorf("write header %s: %w", sheet, err)
		}
		for j, e := range entries {
			cellRef, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cellRef, &[]any{e.Code, e.Name}); err != nil {
				return fmt.Errorf("write row %s: %w", sheet, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save working copy %s: %w", path, err)
	}
	log.WithField("path", path).Info("saved pseudonym working copy")
	return nil
}
