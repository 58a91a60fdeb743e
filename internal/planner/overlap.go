package planner

// Window is the half-open hour interval shared by two blocks.
type Window struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// Overlaps reports whether two blocks meet on the same day at the same time.
// Intervals are half-open: a block ending at 10 does not collide with one starting at 10.
func Overlaps(a, b TimeBlock) bool {
	if a.Day != b.Day {
		return false
	}
	if a.StartHour >= a.EndHour || b.StartHour >= b.EndHour {
		return false
	}
	return a.StartHour < b.EndHour && b.StartHour < a.EndHour
}

// OverlapWindow returns the intersection of a and b when they overlap.
func OverlapWindow(a, b TimeBlock) (Window, bool) {
	if !Overlaps(a, b) {
		return Window{}, false
	}
	return Window{StartHour: max(a.StartHour, b.StartHour), EndHour: min(a.EndHour, b.EndHour)}, true
}
