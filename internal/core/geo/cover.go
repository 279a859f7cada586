package geo

// Specificity orders location rules most-specific-first:
// 3 region+locality, 2 locality only, 1 region only, 0 empty rule
func Specificity(ruleRegion, ruleLocality string) int {
	hasRegion := Fold(ruleRegion) != ""
	hasLocality := Fold(ruleLocality) != ""
	switch {
	case hasRegion && hasLocality:
		return 3
	case hasLocality:
		return 2
	case hasRegion:
		return 1
	default:
		return 0
	}
}

// Covers reports whether a rule location covers a row location.
// A rule with both parts must match both; a locality-only rule matches the
// locality in any region; a region-only rule matches the whole region.
// An empty rule covers nothing
func Covers(ruleRegion, ruleLocality, rowRegion, rowLocality string) bool {
	switch Specificity(ruleRegion, ruleLocality) {
	case 3:
		return SameRegion(ruleRegion, rowRegion) && SameLocality(ruleLocality, rowLocality)
	case 2:
		return SameLocality(ruleLocality, rowLocality)
	case 1:
		return SameRegion(ruleRegion, rowRegion)
	default:
		return false
	}
}
