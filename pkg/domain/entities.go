// Package domain defines the core persistent entities, value types, and
// rule evaluation primitives used by setcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityOrganization identifies a tenant organization record.
	EntityOrganization EntityType = "organization"
	// EntityMembership identifies a user/organization membership record.
	EntityMembership EntityType = "membership"
	// EntitySectionType identifies a per-organization section kind record.
	EntitySectionType EntityType = "section_type"
	// EntitySong identifies a song record.
	EntitySong EntityType = "song"
	// EntityTag identifies a tag record.
	EntityTag EntityType = "tag"
	// EntitySongTag identifies a song/tag association record.
	EntitySongTag EntityType = "song_tag"
	// EntityResource identifies a per-song resource record.
	EntityResource EntityType = "resource"
	// EntitySet identifies a set (run-sheet) record.
	EntitySet EntityType = "set"
	// EntitySection identifies an ordered section within a set.
	EntitySection EntityType = "set_section"
	// EntityPlacement identifies an ordered song placement within a section.
	EntityPlacement EntityType = "set_section_song"
)

// ResourceStatus represents the readiness state of a song resource.
type ResourceStatus string

// Resource readiness states. Every directed edge between the three states is
// a legal transition; self-transitions are treated as no-ops.
const (
	// ResourceQueued is the initial state of every new resource.
	ResourceQueued ResourceStatus = "queued"
	// ResourceReady marks a resource whose processing completed.
	ResourceReady ResourceStatus = "ready"
	// ResourceFailed marks a resource whose processing failed.
	ResourceFailed ResourceStatus = "failed"
)

// Valid reports whether the status is one of the three known states.
func (s ResourceStatus) Valid() bool {
	switch s {
	case ResourceQueued, ResourceReady, ResourceFailed:
		return true
	}
	return false
}

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Organization is the tenancy root; every other record is reachable only
// through exactly one organization.
type Organization struct {
	Base
	Name string `json:"name"`
}

// Membership grants a user access to one organization's data. A user may
// hold memberships in several organizations; operations always name one.
type Membership struct {
	UserID         string    `json:"user_id"`
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// SectionType is a per-organization catalog entry for section kinds such as
// "Opening", "Worship" or "Response".
type SectionType struct {
	Base
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
}

// Song is a catalog entry owned by one organization.
type Song struct {
	Base
	OrganizationID string     `json:"organization_id"`
	Name           string     `json:"name"`
	DefaultKey     MusicalKey `json:"default_key"`
}

// Tag is an organization-scoped label attached to songs.
type Tag struct {
	Base
	OrganizationID string `json:"organization_id"`
	Text           string `json:"tag"`
}

// SongTag associates a song with a tag. The pair is unique; tags inherit
// tenancy transitively through the song.
type SongTag struct {
	SongID    string    `json:"song_id"`
	TagID     string    `json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource is a digital asset attached to a song (chord chart, audio, ...)
// with an independent readiness lifecycle driven by an external worker.
type Resource struct {
	Base
	OrganizationID  string         `json:"organization_id"`
	SongID          string         `json:"song_id"`
	Title           string         `json:"title"`
	URL             string         `json:"url"`
	Status          ResourceStatus `json:"status"`
	StatusChangedAt time.Time      `json:"status_changed_at"`
	ContentKey      *string        `json:"content_key,omitempty"`
}

// Set is an ordered worship run-sheet for a specific service date.
type Set struct {
	Base
	OrganizationID string    `json:"organization_id"`
	Date           time.Time `json:"date"`
	Name           *string   `json:"name,omitempty"`
}

// SetSection is an ordered subdivision of a set. Positions are zero-based
// and contiguous within the parent set after every committed mutation.
type SetSection struct {
	Base
	SetID         string `json:"set_id"`
	SectionTypeID string `json:"section_type_id"`
	Position      int    `json:"position"`
}

// SetSectionSong places a song at a position within a section, optionally
// overriding the song's default key for that placement.
type SetSectionSong struct {
	Base
	SetSectionID string      `json:"set_section_id"`
	SongID       string      `json:"song_id"`
	Position     int         `json:"position"`
	KeyOverride  *MusicalKey `json:"key_override,omitempty"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured in audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
