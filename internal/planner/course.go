package planner

// Course is a read-only snapshot of a catalog course and its weekly blocks.
type Course struct {
	ID        string      `json:"id"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Credits   int         `json:"credits"`
	TypeLabel string      `json:"typeLabel,omitempty"`
	Category  Category    `json:"category"`
	Mandatory bool        `json:"mandatory"`
	Blocks    []TimeBlock `json:"blocks"`
}

// IsMandatory reports the resolved mandatory flag used for priority and scoring.
func (c Course) IsMandatory() bool {
	return c.Mandatory
}

// WeeklyHours sums the duration of every block.
func (c Course) WeeklyHours() int {
	total := 0
	for _, b := range c.Blocks {
		total += b.Duration()
	}
	return total
}

// BuildCourse normalizes raw blocks and classifies the course in one step.
// It fails on the first block that cannot be normalized.
func BuildCourse(id, code, name string, credits int, typeLabel string, raw []RawTimeBlock, classifier Classifier) (Course, error) {
	blocks := make([]TimeBlock, 0, len(raw))
	for _, r := range raw {
		block, err := r.Normalize()
		if err != nil {
			return Course{}, err
		}
		blocks = append(blocks, block)
	}
	if credits < 0 {
		credits = 0
	}
	category := classifier.Classify(typeLabel, name)
	return Course{
		ID:        id,
		Code:      code,
		Name:      name,
		Credits:   credits,
		TypeLabel: typeLabel,
		Category:  category,
		Mandatory: classifier.IsMandatory(category),
		Blocks:    blocks,
	}, nil
}
