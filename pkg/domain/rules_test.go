package domain

import (
	"context"
	"testing"
)

type stubView struct {
	orgs         []Organization
	songs        []Song
	tags         []Tag
	sets         []Set
	sections     []SetSection
	placements   []SetSectionSong
	resources    []Resource
	sectionTypes []SectionType
}

func (v stubView) ListOrganizations() []Organization { return v.orgs }
func (v stubView) ListSongs() []Song                 { return v.songs }
func (v stubView) ListTags() []Tag                   { return v.tags }
func (v stubView) ListSets() []Set                   { return v.sets }
func (v stubView) ListSections() []SetSection        { return v.sections }
func (v stubView) ListPlacements() []SetSectionSong  { return v.placements }
func (v stubView) ListResources() []Resource         { return v.resources }

func (v stubView) FindOrganization(id string) (Organization, bool) {
	for _, o := range v.orgs {
		if o.ID == id {
			return o, true
		}
	}
	return Organization{}, false
}

func (v stubView) FindSong(id string) (Song, bool) {
	for _, s := range v.songs {
		if s.ID == id {
			return s, true
		}
	}
	return Song{}, false
}

func (v stubView) FindSet(id string) (Set, bool) {
	for _, s := range v.sets {
		if s.ID == id {
			return s, true
		}
	}
	return Set{}, false
}

func (v stubView) FindSection(id string) (SetSection, bool) {
	for _, s := range v.sections {
		if s.ID == id {
			return s, true
		}
	}
	return SetSection{}, false
}

func (v stubView) FindSectionType(id string) (SectionType, bool) {
	for _, s := range v.sectionTypes {
		if s.ID == id {
			return s, true
		}
	}
	return SectionType{}, false
}

func consistentView() stubView {
	return stubView{
		orgs:         []Organization{{Base: Base{ID: "org1"}, Name: "Hillside"}},
		sectionTypes: []SectionType{{Base: Base{ID: "st1"}, OrganizationID: "org1", Name: "Opening"}},
		songs:        []Song{{Base: Base{ID: "song1"}, OrganizationID: "org1", Name: "Amazing Grace", DefaultKey: KeyG}},
		sets:         []Set{{Base: Base{ID: "set1"}, OrganizationID: "org1"}},
		sections:     []SetSection{{Base: Base{ID: "sec1"}, SetID: "set1", SectionTypeID: "st1", Position: 0}},
		placements:   []SetSectionSong{{Base: Base{ID: "pl1"}, SetSectionID: "sec1", SongID: "song1", Position: 0}},
		resources:    []Resource{{Base: Base{ID: "res1"}, OrganizationID: "org1", SongID: "song1", Status: ResourceQueued}},
	}
}

func TestDefaultRulesPassOnConsistentState(t *testing.T) {
	engine := NewDefaultRulesEngine()
	res, err := engine.Evaluate(context.Background(), consistentView(), nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if res.HasBlocking() {
		t.Fatalf("unexpected violations: %+v", res.Violations)
	}
}

func TestContiguousPositionsRuleDetectsGapsAndDuplicates(t *testing.T) {
	view := consistentView()
	view.sections = append(view.sections, SetSection{Base: Base{ID: "sec2"}, SetID: "set1", SectionTypeID: "st1", Position: 2})

	res, err := (ContiguousPositionsRule{}).Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking violation for gap")
	}

	view = consistentView()
	view.placements = append(view.placements, SetSectionSong{Base: Base{ID: "pl2"}, SetSectionID: "sec1", SongID: "song1", Position: 0})
	res, err = (ContiguousPositionsRule{}).Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking violation for duplicate position")
	}
}

func TestTenantIsolationRuleDetectsCrossTenantPlacement(t *testing.T) {
	view := consistentView()
	view.orgs = append(view.orgs, Organization{Base: Base{ID: "org2"}, Name: "Valley"})
	view.songs = append(view.songs, Song{Base: Base{ID: "song2"}, OrganizationID: "org2", Name: "Intruder", DefaultKey: KeyC})
	view.placements = append(view.placements, SetSectionSong{Base: Base{ID: "pl2"}, SetSectionID: "sec1", SongID: "song2", Position: 1})

	res, err := (TenantIsolationRule{}).Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking violation for cross-tenant placement")
	}
}

func TestTenantIsolationRuleDetectsForeignSectionType(t *testing.T) {
	view := consistentView()
	view.sectionTypes[0].OrganizationID = "org2"

	res, err := (TenantIsolationRule{}).Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking violation for foreign section type")
	}
}

func TestResultMergeAndBlocking(t *testing.T) {
	var combined Result
	combined.Merge(Result{})
	if len(combined.Violations) != 0 {
		t.Fatalf("merge of empty result should be a no-op")
	}
	combined.Merge(Result{Violations: []Violation{{Rule: "x", Severity: SeverityWarn}}})
	if combined.HasBlocking() {
		t.Fatalf("warn severity must not block")
	}
	combined.Merge(Result{Violations: []Violation{{Rule: "y", Severity: SeverityBlock}}})
	if !combined.HasBlocking() {
		t.Fatalf("block severity must block")
	}
}
