// Package mapping maintains the persistent speaker-mapping ledger: one row
// per recording in each of two parallel sheets ("Names" and "Codes"), keyed
// by the recording ID, with one column per speaker slot seen so far.
//
// The ledger file has a single writer at a time; that is a precondition of
// Upsert, not something this package enforces.
package mapping

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	NamesSheet = "Names"
	CodesSheet = "Codes"
	KeyColumn  = "ID"
)

var speakerColRE = regexp.MustCompile(`(?i)^\s*speaker[\s_-]*0*(\d+)\s*$`)

var sheetAliases = map[string][]string{
	NamesSheet: {"names", "name"},
	CodesSheet: {"codes", "code"},
}

// Row is one recording's values for one sheet, keyed by the canonical
// speaker tag (SPEAKER_00, SPEAKER_01, ...).
type Row map[string]string

// Upsert writes one row per sheet for the recording key into the workbook at
// path, creating the file, the sheets, and any missing speaker columns as
// needed. Existing rows with the same key are overwritten in place; columns
// that are neither the key nor a recognized speaker slot are left untouched.
// The whole update lands in a single save.
func Upsert(path, key string, names, codes Row, spkTags []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ledger dir: %w", err)
	}

	f, fresh, err := open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	idxs, err := slotIndexes(spkTags)
	if err != nil {
		return err
	}

	for sheet, row := range map[string]Row{NamesSheet: names, CodesSheet: codes} {
		target := pickSheet(f, sheet)
		if err := upsertRow(f, target, key, row, idxs); err != nil {
			return fmt.Errorf("sheet %s: %w", target, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save ledger %s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "id": key, "fresh": fresh}).Info("ledger updated")
	return nil
}

// open loads the workbook, falling back to a fresh one when the file is
// missing or unreadable.
func open(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); err == nil {
		if f, err := excelize.OpenFile(path); err == nil {
			return f, false, nil
		}
		log.WithField("path", path).Warn("ledger unreadable, starting fresh")
	}
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), NamesSheet); err != nil {
		return nil, false, fmt.Errorf("init ledger: %w", err)
	}
	if _, err := f.NewSheet(CodesSheet); err != nil {
		return nil, false, fmt.Errorf("init ledger: %w", err)
	}
	return f, true, nil
}

func norm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// pickSheet finds an existing sheet for the desired name, tolerating aliases
// and prefixed variants, and creates it when nothing matches.
func pickSheet(f *excelize.File, desired string) string {
	sheets := f.GetSheetList()
	byNorm := map[string]string{}
	for _, s := range sheets {
		if _, ok := byNorm[norm(s)]; !ok {
			byNorm[norm(s)] = s
		}
	}
	if s, ok := byNorm[norm(desired)]; ok {
		return s
	}
	for _, alias := range sheetAliases[desired] {
		if s, ok := byNorm[alias]; ok {
			return s
		}
	}
	for _, s := range sheets {
		nn := norm(s)
		if strings.HasPrefix(nn, norm(desired)) {
			return s
		}
		for _, alias := range sheetAliases[desired] {
			if strings.HasPrefix(nn, alias) {
				return s
			}
		}
	}
	f.NewSheet(desired)
	return desired
}

func slotIndexes(spkTags []string) ([]int, error) {
	idxs := make([]int, 0, len(spkTags))
	for _, tag := range spkTags {
		parts := strings.Split(tag, "_")
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed speaker tag %q", tag)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed speaker tag %q", tag)
		}
		idxs = append(idxs, n)
	}
	return idxs, nil
}

// slotTag is the canonical column/row key for a speaker ordinal.
func slotTag(idx int) string { return fmt.Sprintf("SPEAKER_%02d", idx) }

// header returns the sheet's first row.
func header(f *excelize.File, sheet string) ([]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// ensureSchema grows the header to cover the key column and every needed
// speaker index, preserving existing column order, and returns the final
// header. New columns are appended at the end only.
func ensureSchema(f *excelize.File, sheet string, idxs []int) ([]string, error) {
	existing, err := header(f, sheet)
	if err != nil {
		return nil, err
	}

	cols := append([]string(nil), existing...)
	hasKey := false
	for _, c := range cols {
		if norm(c) == norm(KeyColumn) {
			hasKey = true
			break
		}
	}
	if !hasKey {
		cols = append([]string{KeyColumn}, cols...)
	}

	present := map[int]bool{}
	for _, c := range cols {
		if m := speakerColRE.FindStringSubmatch(c); m != nil {
			n, _ := strconv.Atoi(m[1])
			present[n] = true
		}
	}
	for _, idx := range idxs {
		if !present[idx] {
			cols = append(cols, slotTag(idx))
			present[idx] = true
		}
	}

	// Reconcile with the stored header: write it whole when the sheet is
	// empty, otherwise append only the columns it does not already carry.
	current, err := header(f, sheet)
	if err != nil {
		return nil, err
	}
	if len(current) == 0 {
		for j, name := range cols {
			if err := setCell(f, sheet, j+1, 1, name); err != nil {
				return nil, err
			}
		}
		return header(f, sheet)
	}
	have := map[string]bool{}
	for _, c := range current {
		have[norm(c)] = true
	}
	for _, name := range cols {
		if !have[norm(name)] {
			current = append(current, name)
			if err := setCell(f, sheet, len(current), 1, name); err != nil {
				return nil, err
			}
		}
	}
	return header(f, sheet)
}

func setCell(f *excelize.File, sheet string, col, row int, v string) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, ref, v)
}

func upsertRow(f *excelize.File, sheet, key string, row Row, idxs []int) error {
	hdr, err := ensureSchema(f, sheet, idxs)
	if err != nil {
		return err
	}

	keyCol := 1
	for j, c := range hdr {
		if norm(c) == norm(KeyColumn) {
			keyCol = j + 1
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	target := 0
	for r := 2; r <= len(rows); r++ {
		cells := rows[r-1]
		if keyCol-1 < len(cells) && cells[keyCol-1] == key {
			target = r
			break
		}
	}
	if target == 0 {
		target = len(rows) + 1
		if target < 2 {
			target = 2
		}
	}

	for j, c := range hdr {
		if norm(c) == norm(KeyColumn) {
			if err := setCell(f, sheet, j+1, target, key); err != nil {
				return err
			}
			continue
		}
		m := speakerColRE.FindStringSubmatch(c)
		if m == nil {
			continue // foreign column, leave alone
		}
		n, _ := strconv.Atoi(m[1])
		if v, ok := row[slotTag(n)]; ok {
			if err := setCell(f, sheet, j+1, target, v); err != nil {
				return err
			}
		}
	}
	return nil
}
