package domain

import (
	"context"
	"fmt"
	"sort"
)

// ContiguousPositionsRule blocks any transaction that would leave a set's
// sections or a section's placements with duplicate or gapped positions.
type ContiguousPositionsRule struct{}

// Name identifies the rule in violation reports.
func (ContiguousPositionsRule) Name() string { return "contiguous_positions" }

// Evaluate verifies every ordered list in the snapshot forms {0..n-1}.
func (ContiguousPositionsRule) Evaluate(_ context.Context, view RuleView, _ []Change) (Result, error) {
	res := Result{}

	sectionsBySet := make(map[string][]int)
	for _, section := range view.ListSections() {
		sectionsBySet[section.SetID] = append(sectionsBySet[section.SetID], section.Position)
	}
	for _, setID := range sortedIDs(sectionsBySet) {
		if err := CheckContiguous(sectionsBySet[setID]); err != nil {
			res.Violations = append(res.Violations, Violation{
				Rule:     "contiguous_positions",
				Severity: SeverityBlock,
				Message:  fmt.Sprintf("sections of set %s: %v", setID, err),
				Entity:   EntitySet,
				EntityID: setID,
			})
		}
	}

	placementsBySection := make(map[string][]int)
	for _, placement := range view.ListPlacements() {
		placementsBySection[placement.SetSectionID] = append(placementsBySection[placement.SetSectionID], placement.Position)
	}
	for _, sectionID := range sortedIDs(placementsBySection) {
		if err := CheckContiguous(placementsBySection[sectionID]); err != nil {
			res.Violations = append(res.Violations, Violation{
				Rule:     "contiguous_positions",
				Severity: SeverityBlock,
				Message:  fmt.Sprintf("placements of section %s: %v", sectionID, err),
				Entity:   EntitySection,
				EntityID: sectionID,
			})
		}
	}
	return res, nil
}

func sortedIDs(m map[string][]int) []string {
	out := make([]string, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
