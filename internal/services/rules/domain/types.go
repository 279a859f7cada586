// Package domain defines types and ports for per-service location rules
package domain

// ExclusionRule removes candidate rows whose location it covers.
// Region and Locality may each be empty; an empty pair never matches
type ExclusionRule struct {
	Region   string
	Locality string
	Reason   string // shown to reviewers; empty falls back to a generic default
}

// InclusionRule allows candidate rows whose location it covers.
// When a service has any inclusion rules, locations outside them are dropped
type InclusionRule struct {
	Region   string
	Locality string
	Memo     string
}

// RuleSet bundles both lists for one service
type RuleSet struct {
	Exclusions []ExclusionRule
	Inclusions []InclusionRule
}
