// Package roster loads the employee roster CSV used by the CLI picker and
// the roster listing endpoint. The file is header-driven: columns may
// appear in any order, cells are matched to raw fields by header name, and
// empty cells are simply absent fields that normalization later fills from
// the schema defaults.
package roster

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"attrition-advisor/internal/models"
	"attrition-advisor/internal/schema"
)

const (
	nameHeader      = "Name"
	attritionHeader = "ActualAttrition"
)

// Entry is one roster row: the raw record plus, when the source data has
// it, the known attrition outcome.
type Entry struct {
	Record   models.EmployeeRecord
	Attrited bool
	// Known reports whether the source row carried an attrition outcome.
	Known bool
}

// Roster is an immutable, order-preserving set of roster entries.
type Roster struct {
	entries []Entry
	byName  map[string]int
}

// Load reads the roster CSV at path. The schema decides how each cell is
// typed: cells for number fields are parsed as floats, everything else is
// kept as a categorical label. Rows without a name are rejected.
func Load(path string, s *schema.FeatureSchema) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster %s has no header row", path)
	}

	header := rows[0]
	nameCol := -1
	for i, h := range header {
		if h == nameHeader {
			nameCol = i
			break
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("roster %s has no %q column", path, nameHeader)
	}

	r := &Roster{byName: make(map[string]int)}
	for rowNum, row := range rows[1:] {
		entry, err := parseRow(header, row, nameCol, s)
		if err != nil {
			return nil, fmt.Errorf("roster %s row %d: %w", path, rowNum+2, err)
		}
		r.byName[entry.Record.Name] = len(r.entries)
		r.entries = append(r.entries, entry)
	}
	return r, nil
}

func parseRow(header, row []string, nameCol int, s *schema.FeatureSchema) (Entry, error) {
	name := strings.TrimSpace(row[nameCol])
	if name == "" {
		return Entry{}, fmt.Errorf("empty employee name")
	}

	entry := Entry{Record: models.NewEmployeeRecord(name)}
	for i, cell := range row {
		if i == nameCol || i >= len(header) {
			continue
		}
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}

		switch header[i] {
		case attritionHeader:
			entry.Attrited = cell == "1" || strings.EqualFold(cell, "yes")
			entry.Known = true
		default:
			entry.Record.Fields[header[i]] = cellValue(header[i], cell, s)
		}
	}
	return entry, nil
}

func cellValue(field, cell string, s *schema.FeatureSchema) models.FieldValue {
	def, ok := s.Field(field)
	if ok && def.Type == schema.FieldNumber {
		if num, err := strconv.ParseFloat(cell, 64); err == nil {
			return models.Number(num)
		}
	}
	return models.Label(cell)
}

// Entries returns the roster rows in file order.
func (r *Roster) Entries() []Entry {
	return r.entries
}

// Names returns the employee names in file order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Record.Name
	}
	return names
}

// Find looks up an entry by exact employee name.
func (r *Roster) Find(name string) (Entry, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Len returns the number of roster entries.
func (r *Roster) Len() int {
	return len(r.entries)
}
