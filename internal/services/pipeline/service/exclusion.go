package service

import (
	"leadscout/internal/core/geo"
	minutesdom "leadscout/internal/services/minutes/domain"
	"leadscout/internal/services/pipeline/domain"
	rulesdom "leadscout/internal/services/rules/domain"
)

const defaultDenyReason = "excluded by location rule"

// applyLocationRules runs the allow list first, then the deny list.
// When the service has any inclusion rules, rows outside all of them drop
// with a fixed reason; survivors then drop on the first covering deny rule,
// most specific rule first. A service with neither list passes everything
func applyLocationRules(rows []minutesdom.Row, set rulesdom.RuleSet) (passed []minutesdom.Row, excluded []domain.Excluded) {
	passed = make([]minutesdom.Row, 0, len(rows))

	inclusions := sortRulesBySpecificity(set.Inclusions, func(r rulesdom.InclusionRule) (string, string) {
		return r.Region, r.Locality
	})
	exclusions := sortRulesBySpecificity(set.Exclusions, func(r rulesdom.ExclusionRule) (string, string) {
		return r.Region, r.Locality
	})

	for _, row := range rows {
		if len(inclusions) > 0 && !anyCovers(inclusions, row) {
			excluded = append(excluded, domain.Excluded{Row: row, Reason: "outside allow-list"})
			continue
		}

		if reason, hit := firstDeny(exclusions, row); hit {
			excluded = append(excluded, domain.Excluded{Row: row, Reason: reason})
			continue
		}

		passed = append(passed, row)
	}
	return passed, excluded
}

// ruleLoc is a rule reduced to what coverage needs
type ruleLoc[T any] struct {
	region   string
	locality string
	rule     T
}

// sortRulesBySpecificity orders rules most specific first and drops empty
// rules, which cover nothing
func sortRulesBySpecificity[T any](rules []T, loc func(T) (string, string)) []ruleLoc[T] {
	out := make([]ruleLoc[T], 0, len(rules))
	for _, r := range rules {
		region, locality := loc(r)
		if geo.Specificity(region, locality) == 0 {
			continue
		}
		out = append(out, ruleLoc[T]{region: region, locality: locality, rule: r})
	}
	// insertion sort keeps rule order stable within a specificity tier
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && geo.Specificity(out[j].region, out[j].locality) > geo.Specificity(out[j-1].region, out[j-1].locality); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func anyCovers[T any](rules []ruleLoc[T], row minutesdom.Row) bool {
	for _, r := range rules {
		if geo.Covers(r.region, r.locality, row.Region, row.Locality) {
			return true
		}
	}
	return false
}

// firstDeny returns the reason of the first covering deny rule
func firstDeny(rules []ruleLoc[rulesdom.ExclusionRule], row minutesdom.Row) (string, bool) {
	for _, r := range rules {
		if geo.Covers(r.region, r.locality, row.Region, row.Locality) {
			if r.rule.Reason != "" {
				return r.rule.Reason, true
			}
			return defaultDenyReason, true
		}
	}
	return "", false
}
