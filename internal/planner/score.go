package planner

import (
	"math"
	"sort"
)

const (
	creditWeight       = 10
	mandatoryWeight    = 20
	conflictPenalty    = 50
	distributionWeight = 10
	distributionCap    = 10.0
)

// Evaluate derives totals, conflicts and score for an arbitrary set of courses.
func Evaluate(courses []Course) Combination {
	conflicts := DetectConflicts(courses)
	return Combination{
		Courses:          courses,
		TotalCredits:     TotalCredits(courses),
		TotalWeeklyHours: TotalWeeklyHours(courses),
		Conflicts:        conflicts,
		Score:            scoreWith(courses, len(conflicts)),
	}
}

// Score rates a set of courses. Conflicts are penalised so any subset can be scored.
func Score(courses []Course) int {
	return scoreWith(courses, len(DetectConflicts(courses)))
}

func scoreWith(courses []Course, conflicts int) int {
	mandatory := 0
	for _, c := range courses {
		if c.IsMandatory() {
			mandatory++
		}
	}
	total := float64(TotalCredits(courses)*creditWeight) +
		float64(mandatory*mandatoryWeight) -
		float64(conflicts*conflictPenalty) +
		DistributionBonus(courses)*distributionWeight
	if total < 0 {
		return 0
	}
	return int(total)
}

// DistributionBonus rewards sessions spread evenly over the six teaching days.
func DistributionBonus(courses []Course) float64 {
	return math.Max(0, distributionCap-SessionVariance(courses))
}

// SessionVariance is the population variance of session counts per canonical day.
func SessionVariance(courses []Course) float64 {
	days := Days()
	counts := make(map[Day]int, len(days))
	for _, c := range courses {
		for _, b := range c.Blocks {
			counts[b.Day]++
		}
	}
	var sum float64
	for _, d := range days {
		sum += float64(counts[d])
	}
	mean := sum / float64(len(days))
	var variance float64
	for _, d := range days {
		diff := float64(counts[d]) - mean
		variance += diff * diff
	}
	return variance / float64(len(days))
}

// TotalCredits sums course credits.
func TotalCredits(courses []Course) int {
	total := 0
	for _, c := range courses {
		total += c.Credits
	}
	return total
}

// TotalWeeklyHours sums weekly block hours.
func TotalWeeklyHours(courses []Course) int {
	total := 0
	for _, c := range courses {
		total += c.WeeklyHours()
	}
	return total
}

// Rank orders combinations by descending score, keeping input order on ties.
func Rank(combos []Combination) {
	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].Score > combos[j].Score
	})
}
