package planner

import "sort"

const (
	DefaultMaxCombinations          = 100
	DefaultMaxCoursesPerCombination = 8
)

// GeneratorOptions bounds the combinational search.
type GeneratorOptions struct {
	MaxCombinations          int
	MaxCoursesPerCombination int
}

func (o GeneratorOptions) withDefaults() GeneratorOptions {
	if o.MaxCombinations <= 0 {
		o.MaxCombinations = DefaultMaxCombinations
	}
	if o.MaxCoursesPerCombination <= 0 {
		o.MaxCoursesPerCombination = DefaultMaxCoursesPerCombination
	}
	return o
}

// Combination is a subset of the candidate pool with its derived totals.
type Combination struct {
	Courses          []Course         `json:"courses"`
	TotalCredits     int              `json:"totalCredits"`
	TotalWeeklyHours int              `json:"totalWeeklyHours"`
	Conflicts        []ConflictRecord `json:"conflicts"`
	Score            int              `json:"score"`
}

// Generate enumerates conflict-free subsets of candidates, following a priority-sorted
// include/exclude search, and returns them ranked by score. The search is greedy: it stops
// after MaxCombinations subsets and does not guarantee the best-scoring one is among them.
func Generate(candidates []Course, opts GeneratorOptions) []Combination {
	opts = opts.withDefaults()

	type ranked struct {
		course   Course
		priority int
	}
	queue := make([]ranked, len(candidates))
	for i, c := range candidates {
		queue[i] = ranked{course: c, priority: Priority(c)}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].priority > queue[j].priority
	})
	sorted := make([]Course, len(queue))
	for i, r := range queue {
		sorted[i] = r.course
	}

	search := &combinationSearch{
		pool:    sorted,
		limit:   opts.MaxCombinations,
		maxSize: opts.MaxCoursesPerCombination,
	}
	search.walk(0, make([]Course, 0, opts.MaxCoursesPerCombination))

	combos := make([]Combination, 0, len(search.found))
	for _, subset := range search.found {
		combos = append(combos, Evaluate(subset))
	}
	Rank(combos)
	return combos
}

// combinationSearch holds the accumulator for a single Generate call.
type combinationSearch struct {
	pool    []Course
	limit   int
	maxSize int
	found   [][]Course
}

func (s *combinationSearch) done() bool {
	return len(s.found) >= s.limit
}

func (s *combinationSearch) walk(next int, current []Course) {
	if s.done() {
		return
	}
	if next == len(s.pool) || len(current) >= s.maxSize {
		subset := make([]Course, len(current))
		copy(subset, current)
		s.found = append(s.found, subset)
		return
	}

	// exclude first so small subsets surface before the budget runs out
	s.walk(next+1, current)
	if s.done() {
		return
	}

	candidate := s.pool[next]
	for _, chosen := range current {
		if CoursesConflict(chosen, candidate) {
			return
		}
	}
	s.walk(next+1, append(current, candidate))
}
