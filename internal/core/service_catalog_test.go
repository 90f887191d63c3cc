package core

import (
	"context"
	"testing"

	"setcore/pkg/domain"
)

func TestCreateSongValidation(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()

	if _, _, err := svc.CreateSong(ctx, scope, SongInput{Name: "  ", DefaultKey: domain.KeyG}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
	if _, _, err := svc.CreateSong(ctx, scope, SongInput{Name: "How Great Thou Art", DefaultKey: MusicalKey("H")}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for bogus key, got %v", err)
	}

	song, _, err := svc.CreateSong(ctx, scope, SongInput{Name: "How Great Thou Art", DefaultKey: domain.KeyBFlat})
	if err != nil {
		t.Fatalf("create song: %v", err)
	}
	if song.OrganizationID != scope.OrganizationID || song.DefaultKey != domain.KeyBFlat {
		t.Fatalf("unexpected song: %+v", song)
	}
}

func TestUpdateSong(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	song := mustCreateSong(t, svc, scope, "Living Hope")

	updated, _, err := svc.UpdateSong(ctx, scope, song.ID, SongInput{Name: "Living Hope (Acoustic)", DefaultKey: domain.KeyE})
	if err != nil {
		t.Fatalf("update song: %v", err)
	}
	if updated.Name != "Living Hope (Acoustic)" || updated.DefaultKey != domain.KeyE {
		t.Fatalf("unexpected update: %+v", updated)
	}
	if !updated.UpdatedAt.After(song.UpdatedAt) && !updated.UpdatedAt.Equal(song.UpdatedAt) {
		t.Fatalf("UpdatedAt went backwards: %v -> %v", song.UpdatedAt, updated.UpdatedAt)
	}

	if _, _, err := svc.UpdateSong(ctx, scope, "missing", SongInput{Name: "X", DefaultKey: domain.KeyC}); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTagSongIsIdempotent(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	song := mustCreateSong(t, svc, scope, "Oceans")

	first, _, err := svc.TagSong(ctx, scope, song.ID, "Hymn")
	if err != nil {
		t.Fatalf("tag song: %v", err)
	}
	second, _, err := svc.TagSong(ctx, scope, song.ID, "Hymn")
	if err != nil {
		t.Fatalf("repeat tag: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same tag reused, got %s vs %s", first.ID, second.ID)
	}

	tags, err := svc.ListSongTags(ctx, scope, song.ID)
	if err != nil {
		t.Fatalf("list song tags: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("expected single tag association, got %+v", tags)
	}
}

func TestTagSongRejectsBlankText(t *testing.T) {
	svc, scope := newFixture(t)
	song := mustCreateSong(t, svc, scope, "Refiner")
	if _, _, err := svc.TagSong(context.Background(), scope, song.ID, "   "); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUntagSong(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	song := mustCreateSong(t, svc, scope, "Shout to the Lord")
	tag, _, err := svc.TagSong(ctx, scope, song.ID, "Classic")
	if err != nil {
		t.Fatalf("tag: %v", err)
	}

	if _, err := svc.UntagSong(ctx, scope, song.ID, tag.ID); err != nil {
		t.Fatalf("untag: %v", err)
	}
	tags, err := svc.ListSongTags(ctx, scope, song.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tags) != 0 {
		t.Fatalf("expected no tags, got %+v", tags)
	}
	// Tag itself survives for reuse by other songs.
	all, err := svc.ListTags(ctx, scope)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(all) != 1 || all[0].ID != tag.ID {
		t.Fatalf("expected tag to remain in catalog, got %+v", all)
	}
}

func TestSearchSongsByQueryAndTags(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()

	grace := mustCreateSong(t, svc, scope, "Amazing Grace")
	vision := mustCreateSong(t, svc, scope, "Be Thou My Vision")
	mustCreateSong(t, svc, scope, "Cornerstone")

	hymn, _, err := svc.TagSong(ctx, scope, grace.ID, "Hymn")
	if err != nil {
		t.Fatalf("tag grace: %v", err)
	}
	if _, _, err := svc.TagSong(ctx, scope, vision.ID, "Hymn"); err != nil {
		t.Fatalf("tag vision: %v", err)
	}
	slow, _, err := svc.TagSong(ctx, scope, grace.ID, "Slow")
	if err != nil {
		t.Fatalf("tag slow: %v", err)
	}

	songs, total, err := svc.SearchSongs(ctx, scope, SongFilter{Query: "grace"})
	if err != nil {
		t.Fatalf("search by query: %v", err)
	}
	if total != 1 || len(songs) != 1 || songs[0].ID != grace.ID {
		t.Fatalf("unexpected query result: total=%d songs=%+v", total, songs)
	}

	songs, total, err = svc.SearchSongs(ctx, scope, SongFilter{TagIDs: []string{hymn.ID}})
	if err != nil {
		t.Fatalf("search by tag: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 hymns, got %d", total)
	}

	// Conjunctive tag filter narrows to songs carrying every tag.
	songs, total, err = svc.SearchSongs(ctx, scope, SongFilter{TagIDs: []string{hymn.ID, slow.ID}})
	if err != nil {
		t.Fatalf("search by both tags: %v", err)
	}
	if total != 1 || songs[0].ID != grace.ID {
		t.Fatalf("expected only grace, got total=%d songs=%+v", total, songs)
	}
}

func TestSearchSongsPagination(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for _, name := range names {
		mustCreateSong(t, svc, scope, name)
	}

	songs, total, err := svc.SearchSongs(ctx, scope, SongFilter{Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("paged search: %v", err)
	}
	if total != len(names) {
		t.Fatalf("total must report the full match count, got %d", total)
	}
	if len(songs) != 2 || songs[0].Name != "Bravo" || songs[1].Name != "Charlie" {
		t.Fatalf("unexpected page: %+v", songs)
	}

	songs, total, err = svc.SearchSongs(ctx, scope, SongFilter{Offset: 99, Limit: 2})
	if err != nil {
		t.Fatalf("past-end search: %v", err)
	}
	if total != len(names) || len(songs) != 0 {
		t.Fatalf("expected empty page past end, got total=%d songs=%+v", total, songs)
	}
}

func TestDeleteSongCascades(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()

	song := mustCreateSong(t, svc, scope, "Way Maker")
	other := mustCreateSong(t, svc, scope, "Yes and Amen")
	if _, _, err := svc.TagSong(ctx, scope, song.ID, "Anthem"); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if _, _, err := svc.CreateResource(ctx, scope, song.ID, ResourceInput{Title: "Chart", URL: "https://example.com/chart.pdf"}); err != nil {
		t.Fatalf("resource: %v", err)
	}

	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	if _, _, err := svc.AddSongToSection(ctx, scope, section.ID, song.ID, nil, nil); err != nil {
		t.Fatalf("place deleted-to-be song: %v", err)
	}
	keeper, _, err := svc.AddSongToSection(ctx, scope, section.ID, other.ID, nil, nil)
	if err != nil {
		t.Fatalf("place keeper: %v", err)
	}

	if _, err := svc.DeleteSong(ctx, scope, song.ID); err != nil {
		t.Fatalf("delete song: %v", err)
	}

	if err := svc.Store().View(ctx, func(v domain.TransactionView) error {
		if _, ok := v.FindSong(song.ID); ok {
			t.Fatalf("song survived delete")
		}
		if got := v.ListSongTagsOf(song.ID); len(got) != 0 {
			t.Fatalf("song tags survived: %+v", got)
		}
		if got := v.ListResourcesOf(song.ID); len(got) != 0 {
			t.Fatalf("resources survived: %+v", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}

	// Remaining placement closes the gap left by the cascade.
	got := placements(t, svc, section.ID)
	if len(got) != 1 || got[0].ID != keeper.ID || got[0].Position != 0 {
		t.Fatalf("placements not renumbered: %+v", got)
	}
}

func TestListTagsSorted(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	song := mustCreateSong(t, svc, scope, "Holy Forever")
	for _, text := range []string{"upbeat", "Communion", "anthem"} {
		if _, _, err := svc.TagSong(ctx, scope, song.ID, text); err != nil {
			t.Fatalf("tag %s: %v", text, err)
		}
	}

	tags, err := svc.ListTags(ctx, scope)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	want := []string{"anthem", "Communion", "upbeat"}
	if len(tags) != len(want) {
		t.Fatalf("expected %d tags, got %+v", len(want), tags)
	}
	for i, tag := range tags {
		if tag.Text != want[i] {
			t.Fatalf("unexpected order: %+v", tags)
		}
	}
}
