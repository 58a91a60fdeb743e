package planner

const (
	basePriority      = 50
	mandatoryPriority = 30
	creditPriority    = 5
	scarcityCeiling   = 20
	scarcityPerBlock  = 2
)

// Priority biases search order: mandatory, credit-heavy and hard-to-place courses first.
// The block-count bonus only applies to courses with at least one block, so an unscheduled
// course gets 50 + 30·mandatory + 5·credits and nothing for scarcity.
func Priority(c Course) int {
	p := basePriority
	if c.IsMandatory() {
		p += mandatoryPriority
	}
	p += c.Credits * creditPriority
	if n := len(c.Blocks); n > 0 {
		p += max(0, scarcityCeiling-n*scarcityPerBlock)
	}
	return clamp(p, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
