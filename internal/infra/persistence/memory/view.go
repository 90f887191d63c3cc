package memory

import (
	"sort"

	"setcore/pkg/domain"
)

// view exposes a read-only snapshot of a state value. It backs both rule
// evaluation and the query facade.
type view struct {
	state *state
}

var _ domain.TransactionView = view{}
var _ domain.RuleView = view{}

// ListOrganizations returns every organization in the snapshot.
func (v view) ListOrganizations() []domain.Organization {
	out := make([]domain.Organization, 0, len(v.state.organizations))
	for _, org := range v.state.organizations {
		out = append(out, org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListSongs returns every song in the snapshot.
func (v view) ListSongs() []domain.Song {
	out := make([]domain.Song, 0, len(v.state.songs))
	for _, song := range v.state.songs {
		out = append(out, song)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListTags returns every tag in the snapshot.
func (v view) ListTags() []domain.Tag {
	out := make([]domain.Tag, 0, len(v.state.tags))
	for _, tag := range v.state.tags {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListSets returns every set in the snapshot.
func (v view) ListSets() []domain.Set {
	out := make([]domain.Set, 0, len(v.state.sets))
	for _, set := range v.state.sets {
		out = append(out, cloneSet(set))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListSections returns every section in the snapshot.
func (v view) ListSections() []domain.SetSection {
	out := make([]domain.SetSection, 0, len(v.state.sections))
	for _, section := range v.state.sections {
		out = append(out, section)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListPlacements returns every placement in the snapshot.
func (v view) ListPlacements() []domain.SetSectionSong {
	out := make([]domain.SetSectionSong, 0, len(v.state.placements))
	for _, p := range v.state.placements {
		out = append(out, clonePlacement(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListResources returns every resource in the snapshot.
func (v view) ListResources() []domain.Resource {
	out := make([]domain.Resource, 0, len(v.state.resources))
	for _, r := range v.state.resources {
		out = append(out, cloneResource(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindOrganization retrieves an organization by ID.
func (v view) FindOrganization(id string) (domain.Organization, bool) {
	org, ok := v.state.organizations[id]
	return org, ok
}

// FindSong retrieves a song by ID.
func (v view) FindSong(id string) (domain.Song, bool) {
	song, ok := v.state.songs[id]
	return song, ok
}

// FindSet retrieves a set by ID.
func (v view) FindSet(id string) (domain.Set, bool) {
	set, ok := v.state.sets[id]
	if !ok {
		return domain.Set{}, false
	}
	return cloneSet(set), true
}

// FindSection retrieves a section by ID.
func (v view) FindSection(id string) (domain.SetSection, bool) {
	section, ok := v.state.sections[id]
	return section, ok
}

// FindSectionType retrieves a section type by ID.
func (v view) FindSectionType(id string) (domain.SectionType, bool) {
	st, ok := v.state.sectionTypes[id]
	return st, ok
}

// FindMembership retrieves a membership row.
func (v view) FindMembership(userID, organizationID string) (domain.Membership, bool) {
	m, ok := v.state.memberships[membershipKey(userID, organizationID)]
	return m, ok
}

// FindTag retrieves a tag by ID.
func (v view) FindTag(id string) (domain.Tag, bool) {
	tag, ok := v.state.tags[id]
	return tag, ok
}

// FindResource retrieves a resource by ID.
func (v view) FindResource(id string) (domain.Resource, bool) {
	r, ok := v.state.resources[id]
	if !ok {
		return domain.Resource{}, false
	}
	return cloneResource(r), true
}

// FindPlacement retrieves a placement by ID.
func (v view) FindPlacement(id string) (domain.SetSectionSong, bool) {
	p, ok := v.state.placements[id]
	if !ok {
		return domain.SetSectionSong{}, false
	}
	return clonePlacement(p), true
}

// ListSectionTypes returns an organization's section type catalog sorted by name.
func (v view) ListSectionTypes(organizationID string) []domain.SectionType {
	var out []domain.SectionType
	for _, st := range v.state.sectionTypes {
		if st.OrganizationID == organizationID {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessByNameID(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out
}

// ListSetsOf returns an organization's sets sorted by service date.
func (v view) ListSetsOf(organizationID string) []domain.Set {
	var out []domain.Set
	for _, set := range v.state.sets {
		if set.OrganizationID == organizationID {
			out = append(out, cloneSet(set))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ListSongsOf returns an organization's songs sorted by name.
func (v view) ListSongsOf(organizationID string) []domain.Song {
	var out []domain.Song
	for _, song := range v.state.songs {
		if song.OrganizationID == organizationID {
			out = append(out, song)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessByNameID(out[i].Name, out[j].Name, out[i].ID, out[j].ID) })
	return out
}

// ListTagsOf returns an organization's tags sorted by text.
func (v view) ListTagsOf(organizationID string) []domain.Tag {
	var out []domain.Tag
	for _, tag := range v.state.tags {
		if tag.OrganizationID == organizationID {
			out = append(out, tag)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessByNameID(out[i].Text, out[j].Text, out[i].ID, out[j].ID) })
	return out
}

// ListSectionsOf returns a set's sections sorted by position.
func (v view) ListSectionsOf(setID string) []domain.SetSection {
	return sectionsOf(v.state, setID)
}

// ListPlacementsOf returns a section's placements sorted by position.
func (v view) ListPlacementsOf(sectionID string) []domain.SetSectionSong {
	return placementsOf(v.state, sectionID)
}

// ListResourcesOf returns a song's resources ordered by creation time.
func (v view) ListResourcesOf(songID string) []domain.Resource {
	return resourcesOf(v.state, songID)
}

// ListSongTagsOf returns a song's tag associations.
func (v view) ListSongTagsOf(songID string) []domain.SongTag {
	return songTagsOf(v.state, songID)
}
