package roster

import (
	"os"
	"path/filepath"
	"testing"

	"attrition-advisor/internal/feature"
	"attrition-advisor/internal/models"
	"attrition-advisor/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSchema(t *testing.T) *schema.FeatureSchema {
	t.Helper()
	s, err := schema.Load("../../configs/model/model.json", "../../configs/model/features.json")
	require.NoError(t, err)
	return s
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SampleRoster(t *testing.T) {
	s := loadSchema(t)

	r, err := Load("../../data/roster.csv", s)
	require.NoError(t, err)
	require.Equal(t, 10, r.Len())

	entry, ok := r.Find("Avery Collins")
	require.True(t, ok)
	assert.Equal(t, models.Number(28), entry.Record.Fields["Age"])
	assert.Equal(t, models.Label("Yes"), entry.Record.Fields["OverTime"])
	assert.True(t, entry.Known)
	assert.True(t, entry.Attrited)

	// Every roster entry must normalize cleanly against the schema.
	for _, e := range r.Entries() {
		_, err := feature.Vector(s, e.Record)
		assert.NoError(t, err, e.Record.Name)
	}
}

func TestLoad_HeaderDrivenColumnOrder(t *testing.T) {
	s := loadSchema(t)

	path := writeRoster(t, "OverTime,Name,Age,MonthlyIncome\nYes,Sam Ortiz,31,5200\n")
	r, err := Load(path, s)
	require.NoError(t, err)

	entry, ok := r.Find("Sam Ortiz")
	require.True(t, ok)
	assert.Equal(t, models.Number(31), entry.Record.Fields["Age"])
	assert.Equal(t, models.Label("Yes"), entry.Record.Fields["OverTime"])
	assert.False(t, entry.Known)
}

func TestLoad_EmptyCellsStayAbsent(t *testing.T) {
	s := loadSchema(t)

	path := writeRoster(t, "Name,Age,MonthlyIncome,OverTime\nSam Ortiz,31,5200,\n")
	r, err := Load(path, s)
	require.NoError(t, err)

	entry, _ := r.Find("Sam Ortiz")
	_, present := entry.Record.Fields["OverTime"]
	assert.False(t, present)
}

func TestLoad_Errors(t *testing.T) {
	s := loadSchema(t)

	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.csv") }},
		{"empty file", func(t *testing.T) string { return writeRoster(t, "") }},
		{"no name column", func(t *testing.T) string { return writeRoster(t, "Age,MonthlyIncome\n31,5200\n") }},
		{"blank name", func(t *testing.T) string { return writeRoster(t, "Name,Age\n  ,31\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path(t), s)
			assert.Error(t, err)
		})
	}
}

func TestNames_PreserveFileOrder(t *testing.T) {
	s := loadSchema(t)

	path := writeRoster(t, "Name,Age\nZoe Lane,40\nAl Reyes,30\n")
	r, err := Load(path, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"Zoe Lane", "Al Reyes"}, r.Names())
}
