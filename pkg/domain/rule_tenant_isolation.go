package domain

import (
	"context"
	"fmt"
)

// TenantIsolationRule blocks transactions that would create a cross-tenant
// reference: a song placed in a set of another organization, a resource
// attached to a song outside its organization, or a section typed by another
// organization's catalog.
type TenantIsolationRule struct{}

// Name identifies the rule in violation reports.
func (TenantIsolationRule) Name() string { return "tenant_isolation" }

// Evaluate walks every reference edge in the snapshot and verifies both ends
// resolve to the same organization.
func (TenantIsolationRule) Evaluate(_ context.Context, view RuleView, _ []Change) (Result, error) {
	res := Result{}
	block := func(entity EntityType, id, msg string) {
		res.Violations = append(res.Violations, Violation{
			Rule:     "tenant_isolation",
			Severity: SeverityBlock,
			Message:  msg,
			Entity:   entity,
			EntityID: id,
		})
	}

	for _, resource := range view.ListResources() {
		song, ok := view.FindSong(resource.SongID)
		if !ok {
			block(EntityResource, resource.ID, fmt.Sprintf("resource %s references missing song %s", resource.ID, resource.SongID))
			continue
		}
		if song.OrganizationID != resource.OrganizationID {
			block(EntityResource, resource.ID, fmt.Sprintf("resource %s crosses organizations (%s vs %s)", resource.ID, resource.OrganizationID, song.OrganizationID))
		}
	}

	setOrg := make(map[string]string)
	for _, set := range view.ListSets() {
		setOrg[set.ID] = set.OrganizationID
	}

	sectionSet := make(map[string]string)
	for _, section := range view.ListSections() {
		sectionSet[section.ID] = section.SetID
		org, ok := setOrg[section.SetID]
		if !ok {
			block(EntitySection, section.ID, fmt.Sprintf("section %s references missing set %s", section.ID, section.SetID))
			continue
		}
		if sectionType, ok := view.FindSectionType(section.SectionTypeID); !ok {
			block(EntitySection, section.ID, fmt.Sprintf("section %s references missing section type %s", section.ID, section.SectionTypeID))
		} else if sectionType.OrganizationID != org {
			block(EntitySection, section.ID, fmt.Sprintf("section %s uses section type from organization %s", section.ID, sectionType.OrganizationID))
		}
	}

	for _, placement := range view.ListPlacements() {
		setID, ok := sectionSet[placement.SetSectionID]
		if !ok {
			block(EntityPlacement, placement.ID, fmt.Sprintf("placement %s references missing section %s", placement.ID, placement.SetSectionID))
			continue
		}
		song, ok := view.FindSong(placement.SongID)
		if !ok {
			block(EntityPlacement, placement.ID, fmt.Sprintf("placement %s references missing song %s", placement.ID, placement.SongID))
			continue
		}
		if song.OrganizationID != setOrg[setID] {
			block(EntityPlacement, placement.ID, fmt.Sprintf("placement %s places song from organization %s into set of organization %s", placement.ID, song.OrganizationID, setOrg[setID]))
		}
	}
	return res, nil
}
