package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	c := DefaultClassifier()
	cases := []struct {
		label, name string
		want        Category
	}{
		{"OB", "Cálculo I", CategoryMandatory},
		{"ob", "Cálculo I", CategoryMandatory},
		{"EL", "Cálculo I", CategoryElective},
		{"Obligatorio", "Física", CategoryMandatory},
		{"Curso Electivo", "Física", CategoryElective},
		{"Opcional", "Física", CategoryElective},
		{"", "Taller Electivo de Robótica", CategoryElective},
		{"", "Curso opcional de Arte", CategoryElective},
		{"", "Química General", CategoryUnknown},
		{"seminario", "Química General", CategoryUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.label, tc.name), "%s / %s", tc.label, tc.name)
	}
}

func TestClassifierUnknownDefault(t *testing.T) {
	assert.True(t, DefaultClassifier().IsMandatory(CategoryUnknown))
	assert.False(t, Classifier{UnknownAs: CategoryElective}.IsMandatory(CategoryUnknown))
	assert.True(t, Classifier{UnknownAs: CategoryElective}.IsMandatory(CategoryMandatory))
	assert.False(t, DefaultClassifier().IsMandatory(CategoryElective))
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory(" elective ")
	require.NoError(t, err)
	assert.Equal(t, CategoryElective, got)

	got, err = ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, CategoryUnknown, got)

	_, err = ParseCategory("core")
	assert.Error(t, err)

	var decoded struct {
		Category Category `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"category":"mandatory"}`), &decoded))
	assert.Equal(t, CategoryMandatory, decoded.Category)
}

func TestBuildCourse(t *testing.T) {
	raw := []RawTimeBlock{
		{Day: "LU", Range: "[08-10]", Type: "T"},
		{Day: "MI", Start: "14:00", End: "16:00", Type: "L", Room: "LAB-1"},
	}
	c, err := BuildCourse("id-1", "IS101", "Programación", 4, "OB", raw, DefaultClassifier())
	require.NoError(t, err)
	assert.Equal(t, CategoryMandatory, c.Category)
	assert.True(t, c.IsMandatory())
	require.Len(t, c.Blocks, 2)
	assert.Equal(t, 4, c.WeeklyHours())
	assert.Equal(t, SessionLab, c.Blocks[1].SessionType)

	_, err = BuildCourse("id-2", "IS102", "Bad", 3, "", []RawTimeBlock{{Day: "DO", Range: "[08-10]"}}, DefaultClassifier())
	assert.ErrorIs(t, err, ErrUnrecognizedDay)

	c, err = BuildCourse("id-3", "IS103", "Curso", -2, "", nil, Classifier{UnknownAs: CategoryElective})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Credits)
	assert.False(t, c.IsMandatory())
	assert.Empty(t, c.Blocks)
}

func TestNewClassifier(t *testing.T) {
	c, err := NewClassifier("elective")
	assert.NoError(t, err)
	assert.False(t, c.IsMandatory(CategoryUnknown))

	c, err = NewClassifier("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultClassifier(), c)

	c, err = NewClassifier("sometimes")
	assert.Error(t, err)
	assert.Equal(t, DefaultClassifier(), c)
}
