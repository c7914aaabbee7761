package extract

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CodeEntry maps one accounting code to a record field.
type CodeEntry struct {
	Code  string
	Field Field
}

// CodeTable is an immutable, versioned catalogue of accounting codes.
type CodeTable struct {
	version string
	fields  map[string]Field
}

// NewCodeTable builds a catalogue. A code may appear only once; several codes
// may target the same field when they are alternate notations.
func NewCodeTable(version string, entries []CodeEntry) (*CodeTable, error) {
	if strings.TrimSpace(version) == "" {
		return nil, fmt.Errorf("code table version is required")
	}
	t := &CodeTable{version: version, fields: make(map[string]Field, len(entries))}
	for _, e := range entries {
		code := strings.TrimSpace(e.Code)
		if code == "" {
			return nil, fmt.Errorf("code table %s: empty code", version)
		}
		if !e.Field.Valid() {
			return nil, fmt.Errorf("code table %s: code %s maps to unknown field %d", version, code, int(e.Field))
		}
		if prev, dup := t.fields[code]; dup {
			return nil, fmt.Errorf("code table %s: code %s mapped twice (%s, %s)", version, code, prev, e.Field)
		}
		t.fields[code] = e.Field
	}
	return t, nil
}

// MustCodeTable is like NewCodeTable but panics on error.
func MustCodeTable(version string, entries []CodeEntry) *CodeTable {
	t, err := NewCodeTable(version, entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Version identifies the catalogue revision.
func (t *CodeTable) Version() string { return t.version }

// Len returns the number of codes.
func (t *CodeTable) Len() int { return len(t.fields) }

// Lookup returns the field for an exact code match.
func (t *CodeTable) Lookup(code string) (Field, bool) {
	f, ok := t.fields[code]
	return f, ok
}

// Codes returns all codes, sorted.
func (t *CodeTable) Codes() []string {
	out := make([]string, 0, len(t.fields))
	for c := range t.fields {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// CodesFor returns the codes that target f, sorted.
func (t *CodeTable) CodesFor(f Field) []string {
	var out []string
	for c, target := range t.fields {
		if target == f {
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}

var (
	codeRegistry   = make(map[string]*CodeTable)
	codeRegistryMu sync.RWMutex
)

// RegisterCodes makes a catalogue available by version.
// Panics if the version is already registered.
func RegisterCodes(t *CodeTable) {
	codeRegistryMu.Lock()
	defer codeRegistryMu.Unlock()

	if _, exists := codeRegistry[t.version]; exists {
		panic(fmt.Sprintf("code table already registered: %s", t.version))
	}
	codeRegistry[t.version] = t
}

// CodesByVersion returns a registered catalogue.
func CodesByVersion(version string) (*CodeTable, bool) {
	codeRegistryMu.RLock()
	defer codeRegistryMu.RUnlock()

	t, ok := codeRegistry[version]
	return t, ok
}

// CodeVersions returns the registered versions, sorted.
func CodeVersions() []string {
	codeRegistryMu.RLock()
	defer codeRegistryMu.RUnlock()

	out := make([]string, 0, len(codeRegistry))
	for v := range codeRegistry {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
