package labels

// Quality bounds.
const (
	MinQuality     = 1
	MaxQuality     = 10
	DefaultQuality = 8
)

// budget is the candidate search allowed at one quality level.
type budget struct {
	angularSteps int     // shifts tried on each side of the anchor
	radialSteps  int     // leader-line extensions tried beyond the base length
	radialShift  float64 // pixels added per extension
}

// budgets is indexed by quality-1. The maximum radial reach
// (radialSteps*radialShift) and the angular step count never decrease with
// quality, so higher levels search at least as far as lower ones.
var budgets = [MaxQuality]budget{
	{1, 1, 20},
	{2, 2, 15},
	{3, 3, 14},
	{4, 4, 12},
	{5, 5, 10},
	{6, 7, 8},
	{7, 9, 6.5},
	{8, 12, 5},
	{12, 17, 4},
	{20, 24, 3},
}

// ClampQuality limits q to [MinQuality, MaxQuality].
func ClampQuality(q int) int {
	return min(max(q, MinQuality), MaxQuality)
}

func budgetFor(q int) budget {
	return budgets[ClampQuality(q)-1]
}
