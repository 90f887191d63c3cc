package memory

// Snapshot is a serializable copy of the full store state. The SQLite and
// Postgres stores marshal it to JSON buckets after every committed
// transaction and hydrate from it on startup.
type Snapshot struct {
	Organizations []Organization   `json:"organizations"`
	Memberships   []Membership     `json:"memberships"`
	SectionTypes  []SectionType    `json:"section_types"`
	Songs         []Song           `json:"songs"`
	Tags          []Tag            `json:"tags"`
	SongTags      []SongTag        `json:"song_tags"`
	Resources     []Resource       `json:"resources"`
	Sets          []Set            `json:"sets"`
	Sections      []SetSection     `json:"sections"`
	Placements    []SetSectionSong `json:"placements"`
}

// ExportState copies the committed state into a Snapshot.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snap Snapshot
	for _, v := range s.state.organizations {
		snap.Organizations = append(snap.Organizations, v)
	}
	for _, v := range s.state.memberships {
		snap.Memberships = append(snap.Memberships, v)
	}
	for _, v := range s.state.sectionTypes {
		snap.SectionTypes = append(snap.SectionTypes, v)
	}
	for _, v := range s.state.songs {
		snap.Songs = append(snap.Songs, v)
	}
	for _, v := range s.state.tags {
		snap.Tags = append(snap.Tags, v)
	}
	for _, v := range s.state.songTags {
		snap.SongTags = append(snap.SongTags, v)
	}
	for _, v := range s.state.resources {
		snap.Resources = append(snap.Resources, cloneResource(v))
	}
	for _, v := range s.state.sets {
		snap.Sets = append(snap.Sets, cloneSet(v))
	}
	for _, v := range s.state.sections {
		snap.Sections = append(snap.Sections, v)
	}
	for _, v := range s.state.placements {
		snap.Placements = append(snap.Placements, clonePlacement(v))
	}
	return snap
}

// ImportState replaces the committed state with the given snapshot.
func (s *Store) ImportState(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := newState()
	for _, v := range snap.Organizations {
		st.organizations[v.ID] = v
	}
	for _, v := range snap.Memberships {
		st.memberships[membershipKey(v.UserID, v.OrganizationID)] = v
	}
	for _, v := range snap.SectionTypes {
		st.sectionTypes[v.ID] = v
	}
	for _, v := range snap.Songs {
		st.songs[v.ID] = v
	}
	for _, v := range snap.Tags {
		st.tags[v.ID] = v
	}
	for _, v := range snap.SongTags {
		st.songTags[songTagKey(v.SongID, v.TagID)] = v
	}
	for _, v := range snap.Resources {
		st.resources[v.ID] = cloneResource(v)
	}
	for _, v := range snap.Sets {
		st.sets[v.ID] = cloneSet(v)
	}
	for _, v := range snap.Sections {
		st.sections[v.ID] = v
	}
	for _, v := range snap.Placements {
		st.placements[v.ID] = clonePlacement(v)
	}
	s.state = st
}
