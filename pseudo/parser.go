package pseudo

import (
	"regexp"
	"strings"
)

// codeRE recognizes a pseudonym code: one category letter, 3-6 digits.
var codeRE = regexp.MustCompile(`^(?i)[MFG]\d{3,6}$`)

// IsCode reports whether s looks like a pseudonym code.
func IsCode(s string) bool { return codeRE.MatchString(s) }

type Entry struct {
	Name string
	Code string
}

// ExtractNameCode resolves a raw cell pair into (name, code). With two
// non-empty values the one matching the code pattern is the code; when both
// match, the second is taken as the code (fixed convention, kept from the
// workbooks this tool has always ingested). With one value, the text is split
// on whitespace and the first code-shaped token is pulled out.
func ExtractNameCode(a, b string, hasB bool) (string, string) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if hasB && a != "" && b != "" {
		aIs, bIs := IsCode(a), IsCode(b)
		switch {
		case aIs && !bIs:
			return b, a
		case bIs && !aIs:
			return a, b
		case aIs && bIs:
			return b, a
		}
		return a, b
	}
	txt := a
	if txt == "" {
		return "", ""
	}
	parts := strings.Fields(txt)
	for i, tok := range parts {
		if IsCode(tok) {
			rest := make([]string, 0, len(parts)-1)
			rest = append(rest, parts[:i]...)
			rest = append(rest, parts[i+1:]...)
			return strings.Join(rest, " "), tok
		}
	}
	if IsCode(txt) {
		return "", txt
	}
	return txt, ""
}

// ParseSheet turns one sheet's cell grid (header row first) into canonical
// entries. Columns literally named "name"/"code" win; otherwise the first two
// columns are used positionally; a single column is treated as mixed text.
// Rows where both values come out empty are dropped, exact duplicates
// collapse to their first occurrence.
func ParseSheet(rows [][]string) []Entry {
	if len(rows) == 0 {
		return nil
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	nameCol, codeCol := -1, -1
	for i, h := range header {
		switch strings.ToLower(h) {
		case "name":
			if nameCol < 0 {
				nameCol = i
			}
		case "code":
			if codeCol < 0 {
				codeCol = i
			}
		}
	}

	colA, colB := 0, -1
	switch {
	case nameCol >= 0 && codeCol >= 0:
		colA, colB = nameCol, codeCol
	case len(header) >= 2:
		colA, colB = 0, 1
	}

	var out []Entry
	seen := map[Entry]bool{}
	for _, row := range rows[1:] {
		a, b := cell(row, colA), ""
		hasB := colB >= 0
		if hasB {
			b = cell(row, colB)
		}
		n, c := ExtractNameCode(a, b, hasB)
		if n == "" && c == "" {
			continue
		}
		e := Entry{Name: n, Code: c}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
