package service

import (
	"testing"

	minutesdom "leadscout/internal/services/minutes/domain"
	rulesdom "leadscout/internal/services/rules/domain"
)

func locRow(id, region, locality string) minutesdom.Row {
	return minutesdom.Row{ID: id, Region: region, Locality: locality, Title: "t-" + id}
}

func TestApplyLocationRules_NoRulesPassesAll(t *testing.T) {
	t.Parallel()

	rows := []minutesdom.Row{locRow("1", "東京都", "港区"), locRow("2", "大阪府", "堺市")}
	passed, excluded := applyLocationRules(rows, rulesdom.RuleSet{})
	if len(passed) != 2 || len(excluded) != 0 {
		t.Fatalf("passed=%d excluded=%d", len(passed), len(excluded))
	}
}

func TestApplyLocationRules_AllowListRunsFirst(t *testing.T) {
	t.Parallel()

	rows := []minutesdom.Row{
		locRow("1", "東京都", "港区"),
		locRow("2", "大阪府", "堺市"),
		locRow("3", "東京都", "大田区"),
	}
	set := rulesdom.RuleSet{
		Inclusions: []rulesdom.InclusionRule{{Region: "東京都"}},
		Exclusions: []rulesdom.ExclusionRule{{Region: "東京都", Locality: "大田区", Reason: "already covered"}},
	}

	passed, excluded := applyLocationRules(rows, set)
	if len(passed) != 1 || passed[0].ID != "1" {
		t.Fatalf("expected only row 1 to pass, got %+v", passed)
	}
	if len(excluded) != 2 {
		t.Fatalf("expected 2 exclusions, got %d", len(excluded))
	}
	if excluded[0].Row.ID != "2" || excluded[0].Reason != "outside allow-list" {
		t.Fatalf("row 2 should fall outside the allow-list: %+v", excluded[0])
	}
	if excluded[1].Row.ID != "3" || excluded[1].Reason != "already covered" {
		t.Fatalf("row 3 should hit the deny rule reason: %+v", excluded[1])
	}
}

func TestApplyLocationRules_NormalizedComparison(t *testing.T) {
	t.Parallel()

	// rule says 東京 without the particle, row carries 東京都; the deny
	// rule has surrounding whitespace
	rows := []minutesdom.Row{locRow("1", "東京都", "港区"), locRow("2", "東京都", "品川区")}
	set := rulesdom.RuleSet{
		Exclusions: []rulesdom.ExclusionRule{{Region: " 東京 ", Locality: "品川"}},
	}

	passed, excluded := applyLocationRules(rows, set)
	if len(passed) != 1 || passed[0].ID != "1" {
		t.Fatalf("expected only row 1 to pass, got %+v", passed)
	}
	if len(excluded) != 1 || excluded[0].Reason != defaultDenyReason {
		t.Fatalf("expected generic deny reason, got %+v", excluded)
	}
}

func TestApplyLocationRules_SpecificityPrecedence(t *testing.T) {
	t.Parallel()

	// both a region-wide rule and a pair rule cover the row; the pair rule
	// is more specific and its reason must win even though it comes second
	rows := []minutesdom.Row{locRow("1", "東京都", "港区")}
	set := rulesdom.RuleSet{
		Exclusions: []rulesdom.ExclusionRule{
			{Region: "東京都", Reason: "whole region"},
			{Region: "東京都", Locality: "港区", Reason: "exact pair"},
		},
	}

	_, excluded := applyLocationRules(rows, set)
	if len(excluded) != 1 || excluded[0].Reason != "exact pair" {
		t.Fatalf("most specific rule should match first: %+v", excluded)
	}
}

func TestApplyLocationRules_EmptyRuleCoversNothing(t *testing.T) {
	t.Parallel()

	rows := []minutesdom.Row{locRow("1", "東京都", "港区")}
	set := rulesdom.RuleSet{
		Inclusions: []rulesdom.InclusionRule{{}}, // junk row from the store
	}

	passed, excluded := applyLocationRules(rows, set)
	if len(passed) != 1 || len(excluded) != 0 {
		t.Fatalf("empty allow rule must not filter anything: passed=%d excluded=%d", len(passed), len(excluded))
	}
}
