package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateOrganization(Organization) (Organization, error)
	UpdateOrganization(id string, mutator func(*Organization) error) (Organization, error)
	DeleteOrganization(id string) error
	CreateMembership(Membership) (Membership, error)
	DeleteMembership(userID, organizationID string) error
	CreateSectionType(SectionType) (SectionType, error)
	DeleteSectionType(id string) error
	CreateSong(Song) (Song, error)
	UpdateSong(id string, mutator func(*Song) error) (Song, error)
	DeleteSong(id string) error
	CreateTag(Tag) (Tag, error)
	DeleteTag(id string) error
	CreateSongTag(SongTag) (SongTag, error)
	DeleteSongTag(songID, tagID string) error
	CreateResource(Resource) (Resource, error)
	UpdateResource(id string, mutator func(*Resource) error) (Resource, error)
	DeleteResource(id string) error
	CreateSet(Set) (Set, error)
	UpdateSet(id string, mutator func(*Set) error) (Set, error)
	DeleteSet(id string) error
	CreateSection(SetSection) (SetSection, error)
	UpdateSection(id string, mutator func(*SetSection) error) (SetSection, error)
	DeleteSection(id string) error
	CreatePlacement(SetSectionSong) (SetSectionSong, error)
	UpdatePlacement(id string, mutator func(*SetSectionSong) error) (SetSectionSong, error)
	DeletePlacement(id string) error

	FindOrganization(id string) (Organization, bool)
	FindMembership(userID, organizationID string) (Membership, bool)
	FindSectionType(id string) (SectionType, bool)
	FindSong(id string) (Song, bool)
	FindTag(id string) (Tag, bool)
	FindTagByText(organizationID, text string) (Tag, bool)
	FindResource(id string) (Resource, bool)
	FindSet(id string) (Set, bool)
	FindSection(id string) (SetSection, bool)
	FindPlacement(id string) (SetSectionSong, bool)

	ListSectionsOf(setID string) []SetSection
	ListPlacementsOf(sectionID string) []SetSectionSong
	ListPlacementsOfSong(songID string) []SetSectionSong
	ListResourcesOf(songID string) []Resource
	ListSongTagsOf(songID string) []SongTag
}

// TransactionView provides read-only access to snapshot data for rules and
// for the query facade. Scoped list results are sorted by position (ordered
// lists) or creation time (resources).
type TransactionView interface {
	RuleView
	ListSectionTypes(organizationID string) []SectionType
	ListSetsOf(organizationID string) []Set
	ListSongsOf(organizationID string) []Song
	ListTagsOf(organizationID string) []Tag
	ListSectionsOf(setID string) []SetSection
	ListPlacementsOf(sectionID string) []SetSectionSong
	ListResourcesOf(songID string) []Resource
	ListSongTagsOf(songID string) []SongTag
	FindMembership(userID, organizationID string) (Membership, bool)
	FindTag(id string) (Tag, bool)
	FindResource(id string) (Resource, bool)
	FindPlacement(id string) (SetSectionSong, bool)
}

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetOrganization(id string) (Organization, bool)
	ListOrganizations() []Organization
}
