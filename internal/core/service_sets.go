package core

import (
	"context"
	"time"

	"setcore/pkg/domain"
)

// The composition engine funnels every position change through the pure
// ordering algebra in pkg/domain: build the current ID order, transform it,
// then renumber records to match. Renumbering only touches records whose
// position actually changed, so siblings see no churn on no-op moves.

func findScopedSet(tx domain.Transaction, scope Scope, setID string) (Set, error) {
	set, ok := tx.FindSet(setID)
	if !ok || set.OrganizationID != scope.OrganizationID {
		return Set{}, domain.NotFoundError{Entity: domain.EntitySet, ID: setID}
	}
	return set, nil
}

// findScopedSection resolves a section through its parent set's tenancy.
func findScopedSection(tx domain.Transaction, scope Scope, sectionID string) (SetSection, error) {
	section, ok := tx.FindSection(sectionID)
	if !ok {
		return SetSection{}, domain.NotFoundError{Entity: domain.EntitySection, ID: sectionID}
	}
	if _, err := findScopedSet(tx, scope, section.SetID); err != nil {
		return SetSection{}, domain.NotFoundError{Entity: domain.EntitySection, ID: sectionID}
	}
	return section, nil
}

// findScopedPlacement resolves a placement through its section and set.
func findScopedPlacement(tx domain.Transaction, scope Scope, placementID string) (SetSectionSong, error) {
	placement, ok := tx.FindPlacement(placementID)
	if !ok {
		return SetSectionSong{}, domain.NotFoundError{Entity: domain.EntityPlacement, ID: placementID}
	}
	if _, err := findScopedSection(tx, scope, placement.SetSectionID); err != nil {
		return SetSectionSong{}, domain.NotFoundError{Entity: domain.EntityPlacement, ID: placementID}
	}
	return placement, nil
}

// sectionOrder returns the set's section IDs sorted by position.
func sectionOrder(tx domain.Transaction, setID string) []string {
	sections := tx.ListSectionsOf(setID)
	order := make([]string, 0, len(sections))
	for _, section := range sections {
		order = append(order, section.ID)
	}
	return order
}

// placementOrder returns the section's placement IDs sorted by position.
func placementOrder(tx domain.Transaction, sectionID string) []string {
	placements := tx.ListPlacementsOf(sectionID)
	order := make([]string, 0, len(placements))
	for _, placement := range placements {
		order = append(order, placement.ID)
	}
	return order
}

// renumberSections assigns position = index for every section in order,
// skipping records already in place.
func renumberSections(tx domain.Transaction, order []string) error {
	for i, id := range order {
		section, ok := tx.FindSection(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntitySection, ID: id}
		}
		if section.Position == i {
			continue
		}
		if _, err := tx.UpdateSection(id, func(sec *SetSection) error {
			sec.Position = i
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// renumberPlacements assigns position = index for every placement in order,
// skipping records already in place.
func renumberPlacements(tx domain.Transaction, order []string) error {
	for i, id := range order {
		placement, ok := tx.FindPlacement(id)
		if !ok {
			return domain.NotFoundError{Entity: domain.EntityPlacement, ID: id}
		}
		if placement.Position == i {
			continue
		}
		if _, err := tx.UpdatePlacement(id, func(p *SetSectionSong) error {
			p.Position = i
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// CreateSet creates an empty set for a service date.
func (s *Service) CreateSet(ctx context.Context, scope Scope, input SetInput) (Set, Result, error) {
	var created Set
	if input.Date.IsZero() {
		return created, Result{}, domain.ValidationError{Field: "date", Reason: "service date is required"}
	}
	res, err := s.run(ctx, scope, "create_set", domain.EntitySet, &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateSet(Set{
			OrganizationID: scope.OrganizationID,
			Date:           input.Date,
			Name:           input.Name,
		})
		return err
	})
	return created, res, err
}

// DeleteSet removes a set with all of its sections and placements.
func (s *Service) DeleteSet(ctx context.Context, scope Scope, setID string) (Result, error) {
	return s.run(ctx, scope, "delete_set", domain.EntitySet, &setID, func(tx domain.Transaction) error {
		if _, err := findScopedSet(tx, scope, setID); err != nil {
			return err
		}
		for _, section := range tx.ListSectionsOf(setID) {
			for _, placement := range tx.ListPlacementsOf(section.ID) {
				if err := tx.DeletePlacement(placement.ID); err != nil {
					return err
				}
			}
			if err := tx.DeleteSection(section.ID); err != nil {
				return err
			}
		}
		return tx.DeleteSet(setID)
	})
}

// ListSets returns the organization's sets ordered by service date. Zero
// bounds leave that side of the range open.
func (s *Service) ListSets(ctx context.Context, scope Scope, from, to time.Time) ([]Set, error) {
	var out []Set
	err := s.read(ctx, scope, "list_sets", func(v domain.TransactionView) error {
		for _, set := range v.ListSetsOf(scope.OrganizationID) {
			if !from.IsZero() && set.Date.Before(from) {
				continue
			}
			if !to.IsZero() && set.Date.After(to) {
				continue
			}
			out = append(out, set)
		}
		return nil
	})
	return out, err
}

// AddSection inserts a section into a set. A nil position appends; an
// explicit position shifts existing sections at or after it up by one.
func (s *Service) AddSection(ctx context.Context, scope Scope, setID, sectionTypeID string, position *int) (SetSection, Result, error) {
	var created SetSection
	res, err := s.run(ctx, scope, "add_section", domain.EntitySection, &created.ID, func(tx domain.Transaction) error {
		if _, err := findScopedSet(tx, scope, setID); err != nil {
			return err
		}
		sectionType, ok := tx.FindSectionType(sectionTypeID)
		if !ok || sectionType.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntitySectionType, ID: sectionTypeID}
		}
		order := sectionOrder(tx, setID)
		at := len(order)
		if position != nil {
			at = *position
		}
		var err error
		created, err = tx.CreateSection(SetSection{
			SetID:         setID,
			SectionTypeID: sectionTypeID,
			Position:      at,
		})
		if err != nil {
			return err
		}
		newOrder, err := domain.InsertAt(order, created.ID, at)
		if err != nil {
			return err
		}
		return renumberSections(tx, newOrder)
	})
	return created, res, err
}

// RemoveSection deletes a section and its placements, closing the gap left
// in the set's section ordering.
func (s *Service) RemoveSection(ctx context.Context, scope Scope, sectionID string) (Result, error) {
	return s.run(ctx, scope, "remove_section", domain.EntitySection, &sectionID, func(tx domain.Transaction) error {
		section, err := findScopedSection(tx, scope, sectionID)
		if err != nil {
			return err
		}
		for _, placement := range tx.ListPlacementsOf(sectionID) {
			if err := tx.DeletePlacement(placement.ID); err != nil {
				return err
			}
		}
		if err := tx.DeleteSection(sectionID); err != nil {
			return err
		}
		return renumberSections(tx, sectionOrder(tx, section.SetID))
	})
}

// MoveSection relocates a section within its set, applying the close-gap
// then open-gap sequence atomically. Moving to the current position is a
// no-op.
func (s *Service) MoveSection(ctx context.Context, scope Scope, sectionID string, newPosition int) (SetSection, Result, error) {
	var moved SetSection
	res, err := s.run(ctx, scope, "move_section", domain.EntitySection, &moved.ID, func(tx domain.Transaction) error {
		section, err := findScopedSection(tx, scope, sectionID)
		if err != nil {
			return err
		}
		order := sectionOrder(tx, section.SetID)
		newOrder, err := domain.MoveTo(order, sectionID, newPosition)
		if err != nil {
			return err
		}
		if err := renumberSections(tx, newOrder); err != nil {
			return err
		}
		moved, _ = tx.FindSection(sectionID)
		return nil
	})
	return moved, res, err
}

// AddSongToSection places a song into a section. A nil position appends. The
// song must belong to the same organization as the section's set; a song
// from another tenant reports NotFound.
func (s *Service) AddSongToSection(ctx context.Context, scope Scope, sectionID, songID string, position *int, key *MusicalKey) (SetSectionSong, Result, error) {
	var created SetSectionSong
	if key != nil && !key.Valid() {
		return created, Result{}, domain.ValidationError{Field: "key", Reason: "key override must be one of the enumerated musical keys"}
	}
	res, err := s.run(ctx, scope, "add_song_to_section", domain.EntityPlacement, &created.ID, func(tx domain.Transaction) error {
		if _, err := findScopedSection(tx, scope, sectionID); err != nil {
			return err
		}
		if _, err := findScopedSong(tx, scope, songID); err != nil {
			return err
		}
		order := placementOrder(tx, sectionID)
		at := len(order)
		if position != nil {
			at = *position
		}
		var err error
		created, err = tx.CreatePlacement(SetSectionSong{
			SetSectionID: sectionID,
			SongID:       songID,
			Position:     at,
			KeyOverride:  key,
		})
		if err != nil {
			return err
		}
		newOrder, err := domain.InsertAt(order, created.ID, at)
		if err != nil {
			return err
		}
		return renumberPlacements(tx, newOrder)
	})
	return created, res, err
}

// MoveSongPlacement relocates a placement to the target section and
// position. When source and target section are the same this degenerates to
// the single-list move; across sections both lists are renumbered in the
// same transaction so neither ever shows a gap or duplicate.
func (s *Service) MoveSongPlacement(ctx context.Context, scope Scope, placementID, targetSectionID string, targetPosition int) (SetSectionSong, Result, error) {
	var moved SetSectionSong
	res, err := s.run(ctx, scope, "move_song_placement", domain.EntityPlacement, &moved.ID, func(tx domain.Transaction) error {
		placement, err := findScopedPlacement(tx, scope, placementID)
		if err != nil {
			return err
		}
		if _, err := findScopedSection(tx, scope, targetSectionID); err != nil {
			return err
		}
		if placement.SetSectionID == targetSectionID {
			order := placementOrder(tx, targetSectionID)
			newOrder, err := domain.MoveTo(order, placementID, targetPosition)
			if err != nil {
				return err
			}
			if err := renumberPlacements(tx, newOrder); err != nil {
				return err
			}
			moved, _ = tx.FindPlacement(placementID)
			return nil
		}

		sourceOrder, _, _ := domain.Remove(placementOrder(tx, placement.SetSectionID), placementID)
		targetOrder := placementOrder(tx, targetSectionID)
		newTarget, err := domain.InsertAt(targetOrder, placementID, targetPosition)
		if err != nil {
			return err
		}
		moved, err = tx.UpdatePlacement(placementID, func(p *SetSectionSong) error {
			p.SetSectionID = targetSectionID
			p.Position = targetPosition
			return nil
		})
		if err != nil {
			return err
		}
		if err := renumberPlacements(tx, sourceOrder); err != nil {
			return err
		}
		return renumberPlacements(tx, newTarget)
	})
	return moved, res, err
}

// RemoveSongPlacement deletes a placement and closes the gap in its section.
func (s *Service) RemoveSongPlacement(ctx context.Context, scope Scope, placementID string) (Result, error) {
	return s.run(ctx, scope, "remove_song_placement", domain.EntityPlacement, &placementID, func(tx domain.Transaction) error {
		placement, err := findScopedPlacement(tx, scope, placementID)
		if err != nil {
			return err
		}
		if err := tx.DeletePlacement(placementID); err != nil {
			return err
		}
		return renumberPlacements(tx, placementOrder(tx, placement.SetSectionID))
	})
}

// SetPlacementKey overrides (or with nil clears) the key for one placement.
func (s *Service) SetPlacementKey(ctx context.Context, scope Scope, placementID string, key *MusicalKey) (SetSectionSong, Result, error) {
	var updated SetSectionSong
	if key != nil && !key.Valid() {
		return updated, Result{}, domain.ValidationError{Field: "key", Reason: "key override must be one of the enumerated musical keys"}
	}
	res, err := s.run(ctx, scope, "set_placement_key", domain.EntityPlacement, &updated.ID, func(tx domain.Transaction) error {
		if _, err := findScopedPlacement(tx, scope, placementID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdatePlacement(placementID, func(p *SetSectionSong) error {
			p.KeyOverride = key
			return nil
		})
		return err
	})
	return updated, res, err
}
