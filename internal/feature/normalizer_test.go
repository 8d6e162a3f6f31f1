package feature

import (
	"testing"

	commonerrors "attrition-advisor/internal/common/errors"
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

func baseRecord() models.EmployeeRecord {
	rec := models.NewEmployeeRecord("Jordan Example")
	rec.Fields["Age"] = models.Number(28)
	rec.Fields["MonthlyIncome"] = models.Number(4500)
	return rec
}

func TestVector_LengthAndDeterminism(t *testing.T) {
	s := loadSchema(t)

	first, err := Vector(s, baseRecord())
	require.NoError(t, err)
	assert.Len(t, first, s.ColumnCount())

	second, err := Vector(s, baseRecord())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestVector_DefaultsFillAbsentFields(t *testing.T) {
	s := loadSchema(t)

	vec, err := Vector(s, baseRecord())
	require.NoError(t, err)

	// OverTime defaults to "No", a dropped label, so the one-hot column
	// holds a scaled zero.
	i, ok := s.ColumnIndex("OverTime_Yes")
	require.True(t, ok)
	assert.InDelta(t, (0-s.Means[i])/s.Scales[i], vec[i], 1e-12)

	// YearsAtCompany defaults to 3.
	i, ok = s.ColumnIndex("YearsAtCompany")
	require.True(t, ok)
	assert.InDelta(t, (3-s.Means[i])/s.Scales[i], vec[i], 1e-12)
}

func TestVector_OneHotExpansion(t *testing.T) {
	s := loadSchema(t)

	rec := baseRecord()
	rec.Fields["Department"] = models.Label("Sales")
	rec.Fields["OverTime"] = models.Label("Yes")

	vec, err := Vector(s, rec)
	require.NoError(t, err)

	i, ok := s.ColumnIndex("Department_Sales")
	require.True(t, ok)
	assert.InDelta(t, (1-s.Means[i])/s.Scales[i], vec[i], 1e-12)

	i, ok = s.ColumnIndex("OverTime_Yes")
	require.True(t, ok)
	assert.InDelta(t, (1-s.Means[i])/s.Scales[i], vec[i], 1e-12)

	// The sibling column of the chosen department stays at scaled zero.
	i, ok = s.ColumnIndex("Department_Human Resources")
	require.True(t, ok)
	assert.InDelta(t, (0-s.Means[i])/s.Scales[i], vec[i], 1e-12)
}

func TestVector_MissingRequiredField(t *testing.T) {
	s := loadSchema(t)

	rec := models.NewEmployeeRecord("No Age")
	rec.Fields["MonthlyIncome"] = models.Number(4500)

	_, err := Vector(s, rec)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeMissingField, commonerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "Age")
}

func TestVector_UnknownCategoryIsCaseSensitive(t *testing.T) {
	s := loadSchema(t)

	rec := baseRecord()
	rec.Fields["OverTime"] = models.Label("yes")

	_, err := Vector(s, rec)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeUnknownCategory, commonerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "OverTime")
	assert.Contains(t, err.Error(), "yes")
}

func TestVector_NumericFromString(t *testing.T) {
	s := loadSchema(t)

	rec := baseRecord()
	rec.Fields["Age"] = models.Label("28")

	fromString, err := Vector(s, rec)
	require.NoError(t, err)

	fromNumber, err := Vector(s, baseRecord())
	require.NoError(t, err)
	assert.Equal(t, fromNumber, fromString)
}

func TestVector_UnparsableNumeric(t *testing.T) {
	s := loadSchema(t)

	rec := baseRecord()
	rec.Fields["Age"] = models.Label("twenty-eight")

	_, err := Vector(s, rec)
	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeUnknownCategory, commonerrors.CodeOf(err))
}

func TestVector_DoesNotMutateRecord(t *testing.T) {
	s := loadSchema(t)

	rec := baseRecord()
	_, err := Vector(s, rec)
	require.NoError(t, err)

	assert.Len(t, rec.Fields, 2)
}
