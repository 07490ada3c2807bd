package pseudo

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Category string

const (
	Mentor  Category = "Mentor"
	Founder Category = "Founder"
	Guest   Category = "Guest"
)

// Categories in workbook order.
var Categories = []Category{Mentor, Founder, Guest}

const codeSpace = 100000 // prefix + [0, 99999]

var seeds = map[Category]int64{
	Mentor:  12345,
	Founder: 67890,
	Guest:   100,
}

var prefixes = map[Category]string{
	Mentor:  "M",
	Founder: "F",
	Guest:   "G",
}

// ErrCodesExhausted means a category has no unissued code left to mint.
var ErrCodesExhausted = errors.New("pseudo: code space exhausted")

// Assignment is one ensure-code outcome, for operator display.
type Assignment struct {
	Name     string
	Code     string
	Existing bool
}

type table struct {
	entries []Entry
	lut     map[string]string // lower(name) -> code
	issued  map[string]bool   // every code seen or minted this session
	inSpace int               // issued codes that occupy the mintable space
	rng     *rand.Rand
}

// Registry owns the three category tables and their seeded random streams.
// The streams are seeded exactly once, when the registry is built, so a fixed
// mint order reproduces a fixed code sequence across runs.
type Registry struct {
	tables map[Category]*table
}

// NewRegistry builds a registry over the parsed category tables. Codes
// already present count as issued and will never be re-minted.
func NewRegistry(books map[Category][]Entry) *Registry {
	r := &Registry{tables: map[Category]*table{}}
	for _, cat := range Categories {
		t := &table{
			lut:    map[string]string{},
			issued: map[string]bool{},
			rng:    rand.New(rand.NewSource(seeds[cat])),
		}
		for _, e := range books[cat] {
			t.entries = append(t.entries, e)
			name := strings.TrimSpace(e.Name)
			code := strings.TrimSpace(e.Code)
			if name != "" {
				key := strings.ToLower(name)
				if _, ok := t.lut[key]; !ok || t.lut[key] == "" {
					t.lut[key] = code
				}
			}
			if code != "" && !t.issued[code] {
				t.issued[code] = true
				if mintable(prefixes[cat], code) {
					t.inSpace++
				}
			}
		}
		r.tables[cat] = t
	}
	return r
}

// Entries returns the current table for a category, minted rows included.
func (r *Registry) Entries(cat Category) []Entry {
	return r.tables[cat].entries
}

// Lookup finds the code for a name, case-insensitively. Empty codes count as
// a miss.
func (r *Registry) Lookup(cat Category, name string) (string, bool) {
	t := r.tables[cat]
	code, ok := t.lut[strings.ToLower(strings.TrimSpace(name))]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// EnsureCode returns the existing code for name, or mints a fresh one,
// appends the pair to the category table, and returns it.
func (r *Registry) EnsureCode(cat Category, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if code, ok := r.Lookup(cat, name); ok {
		return code, true, nil
	}
	t := r.tables[cat]
	code, err := t.mint(cat)
	if err != nil {
		return "", false, err
	}
	t.entries = append(t.entries, Entry{Name: name, Code: code})
	t.lut[strings.ToLower(name)] = code
	log.WithFields(log.Fields{"category": cat, "name": name, "code": code}).Debug("minted pseudonym code")
	return code, false, nil
}

// EnsureCodes applies EnsureCode to each name in order. Names are trimmed,
// empties skipped.
func (r *Registry) EnsureCodes(cat Category, names []string) ([]Assignment, error) {
	var out []Assignment
	for _, nm := range names {
		nm = strings.TrimSpace(nm)
		if nm == "" {
			continue
		}
		code, existing, err := r.EnsureCode(cat, nm)
		if err != nil {
			return out, err
		}
		out = append(out, Assignment{Name: nm, Code: code, Existing: existing})
	}
	return out, nil
}

func (t *table) mint(cat Category) (string, error) {
	if t.inSpace >= codeSpace {
		return "", fmt.Errorf("%w for category %s", ErrCodesExhausted, cat)
	}
	prefix := prefixes[cat]
	for {
		code := fmt.Sprintf("%s%d", prefix, t.rng.Intn(codeSpace))
		if t.issued[code] {
			continue
		}
		t.issued[code] = true
		t.inSpace++
		return code, nil
	}
}

// mintable reports whether code collides with the mint format for prefix:
// the prefix followed by an unpadded integer below the space size.
func mintable(prefix, code string) bool {
	rest, ok := strings.CutPrefix(code, prefix)
	if !ok || rest == "" || len(rest) > 5 {
		return false
	}
	if len(rest) > 1 && rest[0] == '0' {
		return false
	}
	for _, ch := range rest {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
