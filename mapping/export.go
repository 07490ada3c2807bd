package mapping

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteSingle writes a one-recording mapping workbook: sheets Names and
// Codes, header ID plus one column per speaker tag, one data row each. Used
// for the per-recording export next to the final transcript; the persistent
// ledger goes through Upsert instead.
func WriteSingle(path, key string, names, codes Row, spkTags []string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), NamesSheet); err != nil {
		return fmt.Errorf("mapping export: %w", err)
	}
	if _, err := f.NewSheet(CodesSheet); err != nil {
		return fmt.Errorf("mapping export: %w", err)
	}

	for sheet, row := range map[string]Row{NamesSheet: names, CodesSheet: codes} {
		hdr := []any{KeyColumn}
		vals := []any{key}
		for _, tag := range spkTags {
			hdr = append(hdr, tag)
			vals = append(vals, row[tag])
		}
		if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
			return fmt.Errorf("mapping export %s: %w", sheet, err)
		}
		if err := f.SetSheetRow(sheet, "A2", &vals); err != nil {
			return fmt.Errorf("mapping export %s: %w", sheet, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save mapping export %s: %w", path, err)
	}
	return nil
}
