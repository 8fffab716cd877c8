// Package formmap renames flat HTML form keys such as "cp-name-2" into the
// field names used by the roster PDF templates and assembles the answer maps
// written into them.
package formmap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownFieldError is returned for keys that do not belong to a known group
// or carry a malformed row index.
type UnknownFieldError struct {
	Key    string
	Reason string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("formmap: cannot map %q: %s", e.Key, e.Reason)
}

var builtin = map[string]string{
	"assis-name":     "Name-Instructor ID",
	"assis-exp":      "Card Exp Date",
	"cp-name":        "Name",
	"cp-mailing":     "Mailing Address",
	"cp-email":       "Email",
	"cp-phone":       "Telephone",
	"cp-psa":         "PSA",
	"cp-comp-imcomp": "Complete-Incomplete",
	"cp-remed":       "Remediation",
}

// Table maps a key group (the key without its trailing "-<index>") to the
// canonical PDF field name of row 0.
type Table struct {
	groups map[string]string
}

// DefaultTable returns the built-in group table.
func DefaultTable() *Table {
	t := &Table{groups: make(map[string]string, len(builtin))}
	for k, v := range builtin {
		t.groups[k] = v
	}
	return t
}

type tableFile struct {
	Groups map[string]string `yaml:"groups"`
}

// LoadTable reads a YAML file of the form
//
//	groups:
//	  cp-name: Name
//
// and layers it over the built-in table. An empty path returns DefaultTable.
func LoadTable(path string) (*Table, error) {
	t := DefaultTable()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read field map: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse field map %s: %w", path, err)
	}
	for group, name := range f.Groups {
		if strings.TrimSpace(group) == "" || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("field map %s: empty group or name", path)
		}
		t.groups[group] = name
	}
	return t, nil
}

// Canonical returns the row-0 field name for group.
func (t *Table) Canonical(group string) (string, bool) {
	name, ok := t.groups[group]
	return name, ok
}

// Remap converts "<group>-<index>" into the PDF field name for that row.
// Row 0 is the bare canonical name, row i is "<canonical> <i+1>".
func (t *Table) Remap(key string) (string, error) {
	i := strings.LastIndex(key, "-")
	if i <= 0 || i == len(key)-1 {
		return "", &UnknownFieldError{Key: key, Reason: "missing row index"}
	}
	group, idx := key[:i], key[i+1:]
	base, ok := t.Canonical(group)
	if !ok {
		return "", &UnknownFieldError{Key: key, Reason: fmt.Sprintf("unknown field kind %q", group)}
	}
	n, err := strconv.Atoi(idx)
	if err != nil || n < 0 {
		return "", &UnknownFieldError{Key: key, Reason: fmt.Sprintf("bad row index %q", idx)}
	}
	return RowName(base, n), nil
}

// RowName names row n of a repeated field.
func RowName(base string, n int) string {
	if n == 0 {
		return base
	}
	return base + " " + strconv.Itoa(n+1)
}
