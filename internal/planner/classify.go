package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category classifies a course as mandatory or elective.
type Category string

const (
	CategoryMandatory Category = "MANDATORY"
	CategoryElective  Category = "ELECTIVE"
	CategoryUnknown   Category = "UNKNOWN"
)

// ParseCategory accepts the enum value case-insensitively.
func ParseCategory(raw string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryMandatory:
		return CategoryMandatory, nil
	case CategoryElective:
		return CategoryElective, nil
	case CategoryUnknown, "":
		return CategoryUnknown, nil
	}
	return CategoryUnknown, fmt.Errorf("unknown course category %q", raw)
}

// UnmarshalJSON tolerates lowercase input and defaults empty values to UNKNOWN.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseCategory(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// typeCodes is matched against the whole type label.
var typeCodes = map[string]Category{
	"OB": CategoryMandatory,
	"EL": CategoryElective,
}

// typeMarkers is matched as substrings of the lower-cased, accent-free type label.
var typeMarkers = []struct {
	marker   string
	category Category
}{
	{"obligatorio", CategoryMandatory},
	{"obligatoria", CategoryMandatory},
	{"required", CategoryMandatory},
	{"mandatory", CategoryMandatory},
	{"electivo", CategoryElective},
	{"electiva", CategoryElective},
	{"elective", CategoryElective},
	{"optativo", CategoryElective},
	{"optativa", CategoryElective},
	{"opcional", CategoryElective},
}

var nameElectiveMarkers = []string{"electivo", "electiva", "opcional", "optativo", "optativa", "elective"}

// Classifier resolves course categories. UnknownAs decides how UNKNOWN courses are
// treated by IsMandatory.
type Classifier struct {
	UnknownAs Category
}

// DefaultClassifier treats unclassified courses as mandatory.
func DefaultClassifier() Classifier {
	return Classifier{UnknownAs: CategoryMandatory}
}

// Classify inspects the type label first, then the course name for elective markers.
func (c Classifier) Classify(typeLabel, name string) Category {
	label := strings.ToLower(foldAccents(strings.TrimSpace(typeLabel)))
	if category, ok := typeCodes[strings.ToUpper(label)]; ok {
		return category
	}
	for _, m := range typeMarkers {
		if strings.Contains(label, m.marker) {
			return m.category
		}
	}
	lowerName := strings.ToLower(foldAccents(name))
	for _, marker := range nameElectiveMarkers {
		if strings.Contains(lowerName, marker) {
			return CategoryElective
		}
	}
	return CategoryUnknown
}

// IsMandatory resolves a category to the boolean used by priority and scoring.
func (c Classifier) IsMandatory(category Category) bool {
	switch category {
	case CategoryMandatory:
		return true
	case CategoryElective:
		return false
	}
	return c.UnknownAs == CategoryMandatory
}

// NewClassifier builds a classifier whose UNKNOWN courses resolve to unknownAs.
// An empty or UNKNOWN value keeps the mandatory default.
func NewClassifier(unknownAs string) (Classifier, error) {
	category, err := ParseCategory(unknownAs)
	if err != nil {
		return DefaultClassifier(), err
	}
	if category == CategoryUnknown {
		return DefaultClassifier(), nil
	}
	return Classifier{UnknownAs: category}, nil
}
