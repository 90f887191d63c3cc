package core

import (
	"context"

	"setcore/pkg/domain"
)

// SetDetail is the denormalized read model for one set: sections in position
// order, each with its placements in position order, resolved keys, and
// resource readiness counts.
type SetDetail struct {
	Set      Set             `json:"set"`
	Sections []SectionDetail `json:"sections"`
}

// SectionDetail pairs a section with its type and ordered placements.
type SectionDetail struct {
	Section     SetSection        `json:"section"`
	SectionType SectionType       `json:"section_type"`
	Songs       []PlacementDetail `json:"songs"`
}

// PlacementDetail resolves one placement: the song, the effective key
// (placement override or the song's default), and its resource readiness.
type PlacementDetail struct {
	Placement SetSectionSong   `json:"placement"`
	Song      Song             `json:"song"`
	Key       MusicalKey       `json:"key"`
	Resources ReadinessSummary `json:"resources"`
}

// ReadinessSummary counts a song's resources per lifecycle state.
type ReadinessSummary struct {
	Total  int `json:"total"`
	Queued int `json:"queued"`
	Ready  int `json:"ready"`
	Failed int `json:"failed"`
}

// GetSetDetail assembles the full read model for one set from a consistent
// snapshot. A set outside the caller's organization reports NotFound.
func (s *Service) GetSetDetail(ctx context.Context, scope Scope, setID string) (SetDetail, error) {
	var detail SetDetail
	err := s.read(ctx, scope, "get_set_detail", func(v domain.TransactionView) error {
		set, ok := v.FindSet(setID)
		if !ok || set.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntitySet, ID: setID}
		}
		detail.Set = set
		for _, section := range v.ListSectionsOf(setID) {
			sectionDetail := SectionDetail{Section: section}
			if sectionType, ok := v.FindSectionType(section.SectionTypeID); ok {
				sectionDetail.SectionType = sectionType
			}
			for _, placement := range v.ListPlacementsOf(section.ID) {
				song, ok := v.FindSong(placement.SongID)
				if !ok {
					return domain.NotFoundError{Entity: domain.EntitySong, ID: placement.SongID}
				}
				key := song.DefaultKey
				if placement.KeyOverride != nil {
					key = *placement.KeyOverride
				}
				sectionDetail.Songs = append(sectionDetail.Songs, PlacementDetail{
					Placement: placement,
					Song:      song,
					Key:       key,
					Resources: summarizeReadiness(v.ListResourcesOf(song.ID)),
				})
			}
			detail.Sections = append(detail.Sections, sectionDetail)
		}
		return nil
	})
	return detail, err
}

func summarizeReadiness(resources []Resource) ReadinessSummary {
	summary := ReadinessSummary{Total: len(resources)}
	for _, resource := range resources {
		switch resource.Status {
		case domain.ResourceQueued:
			summary.Queued++
		case domain.ResourceReady:
			summary.Ready++
		case domain.ResourceFailed:
			summary.Failed++
		}
	}
	return summary
}
