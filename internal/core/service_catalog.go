package core

import (
	"context"
	"sort"
	"strings"

	"setcore/pkg/domain"
)

// findScopedSong resolves a song inside the caller's organization. A missing
// song and a song owned by another organization are indistinguishable.
func findScopedSong(tx domain.Transaction, scope Scope, songID string) (Song, error) {
	song, ok := tx.FindSong(songID)
	if !ok || song.OrganizationID != scope.OrganizationID {
		return Song{}, domain.NotFoundError{Entity: domain.EntitySong, ID: songID}
	}
	return song, nil
}

// CreateSong validates the name and default key and adds the song to the
// caller's catalog.
func (s *Service) CreateSong(ctx context.Context, scope Scope, input SongInput) (Song, Result, error) {
	var created Song
	if err := domain.ValidateSongName(input.Name); err != nil {
		return created, Result{}, err
	}
	if !input.DefaultKey.Valid() {
		return created, Result{}, domain.ValidationError{Field: "default_key", Reason: "default key must be one of the enumerated musical keys"}
	}
	res, err := s.run(ctx, scope, "create_song", domain.EntitySong, &created.ID, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateSong(Song{
			OrganizationID: scope.OrganizationID,
			Name:           input.Name,
			DefaultKey:     input.DefaultKey,
		})
		return err
	})
	return created, res, err
}

// UpdateSong replaces a song's name and default key.
func (s *Service) UpdateSong(ctx context.Context, scope Scope, songID string, input SongInput) (Song, Result, error) {
	var updated Song
	if err := domain.ValidateSongName(input.Name); err != nil {
		return updated, Result{}, err
	}
	if !input.DefaultKey.Valid() {
		return updated, Result{}, domain.ValidationError{Field: "default_key", Reason: "default key must be one of the enumerated musical keys"}
	}
	res, err := s.run(ctx, scope, "update_song", domain.EntitySong, &updated.ID, func(tx domain.Transaction) error {
		if _, err := findScopedSong(tx, scope, songID); err != nil {
			return err
		}
		var err error
		updated, err = tx.UpdateSong(songID, func(song *Song) error {
			song.Name = input.Name
			song.DefaultKey = input.DefaultKey
			return nil
		})
		return err
	})
	return updated, res, err
}

// DeleteSong removes a song together with its tag associations, resources,
// and set placements. Sibling placements in each affected section are
// repositioned so ordering stays contiguous.
func (s *Service) DeleteSong(ctx context.Context, scope Scope, songID string) (Result, error) {
	return s.run(ctx, scope, "delete_song", domain.EntitySong, &songID, func(tx domain.Transaction) error {
		if _, err := findScopedSong(tx, scope, songID); err != nil {
			return err
		}
		affected := make(map[string]bool)
		for _, placement := range tx.ListPlacementsOfSong(songID) {
			affected[placement.SetSectionID] = true
			if err := tx.DeletePlacement(placement.ID); err != nil {
				return err
			}
		}
		for sectionID := range affected {
			if err := renumberPlacements(tx, placementOrder(tx, sectionID)); err != nil {
				return err
			}
		}
		for _, st := range tx.ListSongTagsOf(songID) {
			if err := tx.DeleteSongTag(st.SongID, st.TagID); err != nil {
				return err
			}
		}
		for _, resource := range tx.ListResourcesOf(songID) {
			if err := tx.DeleteResource(resource.ID); err != nil {
				return err
			}
		}
		return tx.DeleteSong(songID)
	})
}

// TagSong finds or creates a tag with the given text in the caller's
// organization and associates it with the song. Re-tagging with the same
// text is a no-op, never an error.
func (s *Service) TagSong(ctx context.Context, scope Scope, songID, tagText string) (Tag, Result, error) {
	var tag Tag
	if err := domain.ValidateTagText(tagText); err != nil {
		return tag, Result{}, err
	}
	res, err := s.run(ctx, scope, "tag_song", domain.EntitySongTag, &tag.ID, func(tx domain.Transaction) error {
		if _, err := findScopedSong(tx, scope, songID); err != nil {
			return err
		}
		existing, ok := tx.FindTagByText(scope.OrganizationID, tagText)
		if ok {
			tag = existing
		} else {
			var err error
			tag, err = tx.CreateTag(Tag{OrganizationID: scope.OrganizationID, Text: tagText})
			if err != nil {
				return err
			}
		}
		for _, st := range tx.ListSongTagsOf(songID) {
			if st.TagID == tag.ID {
				return nil
			}
		}
		_, err := tx.CreateSongTag(SongTag{SongID: songID, TagID: tag.ID})
		return err
	})
	return tag, res, err
}

// UntagSong removes the association between a song and a tag. The tag record
// itself is kept for reuse.
func (s *Service) UntagSong(ctx context.Context, scope Scope, songID, tagID string) (Result, error) {
	return s.run(ctx, scope, "untag_song", domain.EntitySongTag, &songID, func(tx domain.Transaction) error {
		if _, err := findScopedSong(tx, scope, songID); err != nil {
			return err
		}
		if tag, ok := tx.FindTag(tagID); !ok || tag.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntityTag, ID: tagID}
		}
		return tx.DeleteSongTag(songID, tagID)
	})
}

// ListTags returns the organization's tags sorted by text.
func (s *Service) ListTags(ctx context.Context, scope Scope) ([]Tag, error) {
	var out []Tag
	err := s.read(ctx, scope, "list_tags", func(v domain.TransactionView) error {
		out = v.ListTagsOf(scope.OrganizationID)
		return nil
	})
	return out, err
}

// ListSongTags returns the tags associated with one song sorted by text.
func (s *Service) ListSongTags(ctx context.Context, scope Scope, songID string) ([]Tag, error) {
	var out []Tag
	err := s.read(ctx, scope, "list_song_tags", func(v domain.TransactionView) error {
		song, ok := v.FindSong(songID)
		if !ok || song.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntitySong, ID: songID}
		}
		for _, st := range v.ListSongTagsOf(songID) {
			if tag, ok := v.FindTag(st.TagID); ok {
				out = append(out, tag)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Text) < strings.ToLower(out[j].Text)
		})
		return nil
	})
	return out, err
}

// SearchSongs filters the catalog by a case-insensitive name substring and a
// conjunctive tag set, then applies offset/limit paging over the sorted
// result. The second return value is the total match count before paging so
// callers can page without server-side cursor state.
func (s *Service) SearchSongs(ctx context.Context, scope Scope, filter SongFilter) ([]Song, int, error) {
	var (
		out   []Song
		total int
	)
	err := s.read(ctx, scope, "search_songs", func(v domain.TransactionView) error {
		query := strings.ToLower(strings.TrimSpace(filter.Query))
		matched := make([]Song, 0)
		for _, song := range v.ListSongsOf(scope.OrganizationID) {
			if query != "" && !strings.Contains(strings.ToLower(song.Name), query) {
				continue
			}
			if !songHasAllTags(v, song.ID, filter.TagIDs) {
				continue
			}
			matched = append(matched, song)
		}
		total = len(matched)
		start := filter.Offset
		if start < 0 {
			start = 0
		}
		if start > len(matched) {
			start = len(matched)
		}
		end := len(matched)
		if filter.Limit > 0 && start+filter.Limit < end {
			end = start + filter.Limit
		}
		out = matched[start:end]
		return nil
	})
	return out, total, err
}

func songHasAllTags(v domain.TransactionView, songID string, tagIDs []string) bool {
	if len(tagIDs) == 0 {
		return true
	}
	have := make(map[string]bool)
	for _, st := range v.ListSongTagsOf(songID) {
		have[st.TagID] = true
	}
	for _, id := range tagIDs {
		if !have[id] {
			return false
		}
	}
	return true
}
