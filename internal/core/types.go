// Package core exposes the transactional service surface for setcore: the
// tenant scope guard, song and tag catalog, resource lifecycle manager, set
// composition engine, and the read facade that assembles set details.
package core

import (
	"time"

	"setcore/pkg/domain"
)

// Aliases for domain types so service call sites stay concise.
type (
	Organization   = domain.Organization
	Membership     = domain.Membership
	SectionType    = domain.SectionType
	Song           = domain.Song
	Tag            = domain.Tag
	SongTag        = domain.SongTag
	Resource       = domain.Resource
	Set            = domain.Set
	SetSection     = domain.SetSection
	SetSectionSong = domain.SetSectionSong
	MusicalKey     = domain.MusicalKey
	ResourceStatus = domain.ResourceStatus
	Result         = domain.Result
	RulesEngine    = domain.RulesEngine
)

// Scope is an authorized context produced by Service.Authorize. Every scoped
// operation takes it as the first argument after ctx, so an unauthorized call
// path is a compile error rather than a missing runtime check.
type Scope struct {
	UserID         string
	OrganizationID string
}

// SongInput carries the fields accepted when creating or updating a song.
type SongInput struct {
	Name       string
	DefaultKey MusicalKey
}

// ResourceInput carries the fields accepted when attaching a resource.
type ResourceInput struct {
	Title string
	URL   string
}

// SetInput carries the fields accepted when creating a set.
type SetInput struct {
	Date time.Time
	Name *string
}

// SongFilter narrows a catalog search. Query matches song names
// case-insensitively as a substring; TagIDs is conjunctive. Offset and Limit
// page the sorted result; Limit <= 0 means no limit.
type SongFilter struct {
	Query  string
	TagIDs []string
	Offset int
	Limit  int
}
