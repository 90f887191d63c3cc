package core

import (
	"context"
	"testing"

	"setcore/pkg/domain"
)

// sectionPositions reads back a set's sections as (id, position) pairs in
// position order.
func sectionPositions(t *testing.T, svc *Service, setID string) []SetSection {
	t.Helper()
	var out []SetSection
	if err := svc.Store().View(context.Background(), func(v domain.TransactionView) error {
		out = v.ListSectionsOf(setID)
		return nil
	}); err != nil {
		t.Fatalf("view sections: %v", err)
	}
	return out
}

func placements(t *testing.T, svc *Service, sectionID string) []SetSectionSong {
	t.Helper()
	var out []SetSectionSong
	if err := svc.Store().View(context.Background(), func(v domain.TransactionView) error {
		out = v.ListPlacementsOf(sectionID)
		return nil
	}); err != nil {
		t.Fatalf("view placements: %v", err)
	}
	return out
}

func assertContiguous(t *testing.T, positions []int) {
	t.Helper()
	if err := domain.CheckContiguous(positions); err != nil {
		t.Fatalf("contiguity violated: %v (positions %v)", err, positions)
	}
}

func TestAddSectionAppendsAndInserts(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	typeA := mustCreateSectionType(t, svc, scope, "Opening")
	typeB := mustCreateSectionType(t, svc, scope, "Worship")

	first, _, err := svc.AddSection(ctx, scope, set.ID, typeA.ID, nil)
	if err != nil {
		t.Fatalf("append first section: %v", err)
	}
	if first.Position != 0 {
		t.Fatalf("expected first section at 0, got %d", first.Position)
	}

	second, _, err := svc.AddSection(ctx, scope, set.ID, typeB.ID, intPtr(0))
	if err != nil {
		t.Fatalf("insert at head: %v", err)
	}
	if second.Position != 0 {
		t.Fatalf("expected inserted section at 0, got %d", second.Position)
	}

	sections := sectionPositions(t, svc, set.ID)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].ID != second.ID || sections[1].ID != first.ID {
		t.Fatalf("expected inserted section first, got %+v", sections)
	}
	if sections[0].Position != 0 || sections[1].Position != 1 {
		t.Fatalf("expected positions 0,1 got %d,%d", sections[0].Position, sections[1].Position)
	}
}

func TestAddSectionRejectsOutOfRangePosition(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")

	if _, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, intPtr(-1)); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative position, got %v", err)
	}
	if _, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, intPtr(1)); !domain.IsValidation(err) {
		t.Fatalf("expected validation error beyond count, got %v", err)
	}
	if got := sectionPositions(t, svc, set.ID); len(got) != 0 {
		t.Fatalf("failed inserts must not persist sections, got %+v", got)
	}
}

func TestRemoveSectionClosesGap(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")

	var ids []string
	for i := 0; i < 4; i++ {
		section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
		if err != nil {
			t.Fatalf("add section %d: %v", i, err)
		}
		ids = append(ids, section.ID)
	}

	if _, err := svc.RemoveSection(ctx, scope, ids[1]); err != nil {
		t.Fatalf("remove section: %v", err)
	}

	sections := sectionPositions(t, svc, set.ID)
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	want := []string{ids[0], ids[2], ids[3]}
	var positions []int
	for i, section := range sections {
		if section.ID != want[i] {
			t.Fatalf("unexpected order at %d: %+v", i, sections)
		}
		positions = append(positions, section.Position)
	}
	assertContiguous(t, positions)
}

func TestMoveSectionRelocatesAndRenumbers(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")

	var ids []string
	for i := 0; i < 3; i++ {
		section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
		if err != nil {
			t.Fatalf("add section %d: %v", i, err)
		}
		ids = append(ids, section.ID)
	}

	moved, _, err := svc.MoveSection(ctx, scope, ids[2], 0)
	if err != nil {
		t.Fatalf("move section: %v", err)
	}
	if moved.Position != 0 {
		t.Fatalf("expected moved section at 0, got %d", moved.Position)
	}

	sections := sectionPositions(t, svc, set.ID)
	want := []string{ids[2], ids[0], ids[1]}
	for i, section := range sections {
		if section.ID != want[i] || section.Position != i {
			t.Fatalf("unexpected layout: %+v", sections)
		}
	}
}

func TestMoveSectionToCurrentPositionIsNoOp(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")

	var ids []string
	for i := 0; i < 3; i++ {
		section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
		if err != nil {
			t.Fatalf("add section %d: %v", i, err)
		}
		ids = append(ids, section.ID)
	}
	before := sectionPositions(t, svc, set.ID)

	if _, _, err := svc.MoveSection(ctx, scope, ids[1], 1); err != nil {
		t.Fatalf("no-op move: %v", err)
	}

	after := sectionPositions(t, svc, set.ID)
	for i := range before {
		if before[i].ID != after[i].ID || before[i].Position != after[i].Position {
			t.Fatalf("no-op move changed layout: %+v vs %+v", before, after)
		}
		if !before[i].UpdatedAt.Equal(after[i].UpdatedAt) {
			t.Fatalf("no-op move churned sibling %s", before[i].ID)
		}
	}
}

func TestAddSongToSectionOrdering(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}

	songA := mustCreateSong(t, svc, scope, "Amazing Grace")
	songB := mustCreateSong(t, svc, scope, "Be Thou My Vision")

	first, _, err := svc.AddSongToSection(ctx, scope, section.ID, songA.ID, nil, nil)
	if err != nil {
		t.Fatalf("append song: %v", err)
	}
	if first.Position != 0 {
		t.Fatalf("expected first placement at 0, got %d", first.Position)
	}
	second, _, err := svc.AddSongToSection(ctx, scope, section.ID, songB.ID, intPtr(0), keyPtr(domain.KeyD))
	if err != nil {
		t.Fatalf("insert song at head: %v", err)
	}

	got := placements(t, svc, section.ID)
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("unexpected placement order: %+v", got)
	}
	if got[0].KeyOverride == nil || *got[0].KeyOverride != domain.KeyD {
		t.Fatalf("expected key override D, got %+v", got[0].KeyOverride)
	}
	assertContiguous(t, []int{got[0].Position, got[1].Position})
}

func TestMoveSongWithinSection(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}

	var placementIDs []string
	for _, name := range []string{"Agnus Dei", "Build My Life", "Cornerstone"} {
		song := mustCreateSong(t, svc, scope, name)
		placement, _, err := svc.AddSongToSection(ctx, scope, section.ID, song.ID, nil, nil)
		if err != nil {
			t.Fatalf("place %s: %v", name, err)
		}
		placementIDs = append(placementIDs, placement.ID)
	}

	// [a@0 b@1 c@2] with b moved to 0 becomes [b@0 a@1 c@2].
	moved, _, err := svc.MoveSongPlacement(ctx, scope, placementIDs[1], section.ID, 0)
	if err != nil {
		t.Fatalf("move placement: %v", err)
	}
	if moved.Position != 0 {
		t.Fatalf("expected moved placement at 0, got %d", moved.Position)
	}
	got := placements(t, svc, section.ID)
	want := []string{placementIDs[1], placementIDs[0], placementIDs[2]}
	for i, placement := range got {
		if placement.ID != want[i] || placement.Position != i {
			t.Fatalf("unexpected layout: %+v", got)
		}
	}
}

func TestMoveSongAcrossSections(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	source, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add source section: %v", err)
	}
	target, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add target section: %v", err)
	}

	var sourceIDs []string
	for _, name := range []string{"Doxology", "Everlasting God"} {
		song := mustCreateSong(t, svc, scope, name)
		placement, _, err := svc.AddSongToSection(ctx, scope, source.ID, song.ID, nil, nil)
		if err != nil {
			t.Fatalf("place %s: %v", name, err)
		}
		sourceIDs = append(sourceIDs, placement.ID)
	}
	targetSong := mustCreateSong(t, svc, scope, "Forever")
	targetPlacement, _, err := svc.AddSongToSection(ctx, scope, target.ID, targetSong.ID, nil, nil)
	if err != nil {
		t.Fatalf("place target song: %v", err)
	}

	moved, _, err := svc.MoveSongPlacement(ctx, scope, sourceIDs[0], target.ID, 1)
	if err != nil {
		t.Fatalf("move across sections: %v", err)
	}
	if moved.SetSectionID != target.ID || moved.Position != 1 {
		t.Fatalf("unexpected moved placement: %+v", moved)
	}

	sourceAfter := placements(t, svc, source.ID)
	if len(sourceAfter) != 1 || sourceAfter[0].ID != sourceIDs[1] || sourceAfter[0].Position != 0 {
		t.Fatalf("source gap not closed: %+v", sourceAfter)
	}
	targetAfter := placements(t, svc, target.ID)
	if len(targetAfter) != 2 || targetAfter[0].ID != targetPlacement.ID || targetAfter[1].ID != sourceIDs[0] {
		t.Fatalf("unexpected target layout: %+v", targetAfter)
	}
	assertContiguous(t, []int{targetAfter[0].Position, targetAfter[1].Position})
}

func TestRemoveSongPlacementClosesGap(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}

	var placementIDs []string
	for _, name := range []string{"Gratitude", "Here I Am to Worship", "In Christ Alone"} {
		song := mustCreateSong(t, svc, scope, name)
		placement, _, err := svc.AddSongToSection(ctx, scope, section.ID, song.ID, nil, nil)
		if err != nil {
			t.Fatalf("place %s: %v", name, err)
		}
		placementIDs = append(placementIDs, placement.ID)
	}

	if _, err := svc.RemoveSongPlacement(ctx, scope, placementIDs[0]); err != nil {
		t.Fatalf("remove placement: %v", err)
	}
	got := placements(t, svc, section.ID)
	if len(got) != 2 || got[0].ID != placementIDs[1] || got[0].Position != 0 || got[1].Position != 1 {
		t.Fatalf("gap not closed: %+v", got)
	}
}

func TestSetPlacementKeyOverrideAndClear(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	song := mustCreateSong(t, svc, scope, "Jesus Paid It All")
	placement, _, err := svc.AddSongToSection(ctx, scope, section.ID, song.ID, nil, nil)
	if err != nil {
		t.Fatalf("place song: %v", err)
	}

	updated, _, err := svc.SetPlacementKey(ctx, scope, placement.ID, keyPtr(domain.KeyBFlat))
	if err != nil {
		t.Fatalf("set key: %v", err)
	}
	if updated.KeyOverride == nil || *updated.KeyOverride != domain.KeyBFlat {
		t.Fatalf("expected Bb override, got %+v", updated.KeyOverride)
	}

	cleared, _, err := svc.SetPlacementKey(ctx, scope, placement.ID, nil)
	if err != nil {
		t.Fatalf("clear key: %v", err)
	}
	if cleared.KeyOverride != nil {
		t.Fatalf("expected cleared override, got %+v", cleared.KeyOverride)
	}
}

func TestDeleteSetCascades(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}
	song := mustCreateSong(t, svc, scope, "King of Kings")
	if _, _, err := svc.AddSongToSection(ctx, scope, section.ID, song.ID, nil, nil); err != nil {
		t.Fatalf("place song: %v", err)
	}

	if _, err := svc.DeleteSet(ctx, scope, set.ID); err != nil {
		t.Fatalf("delete set: %v", err)
	}
	if err := svc.Store().View(ctx, func(v domain.TransactionView) error {
		if _, ok := v.FindSet(set.ID); ok {
			t.Fatalf("set survived delete")
		}
		if _, ok := v.FindSection(section.ID); ok {
			t.Fatalf("section survived delete")
		}
		if got := v.ListPlacementsOf(section.ID); len(got) != 0 {
			t.Fatalf("placements survived delete: %+v", got)
		}
		return nil
	}); err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestOrderingHoldsUnderMixedSequence(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")

	var ids []string
	for i := 0; i < 5; i++ {
		section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
		if err != nil {
			t.Fatalf("add section %d: %v", i, err)
		}
		ids = append(ids, section.ID)
	}

	if _, _, err := svc.MoveSection(ctx, scope, ids[4], 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	if _, err := svc.RemoveSection(ctx, scope, ids[2]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, intPtr(2)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, _, err := svc.MoveSection(ctx, scope, ids[0], 4); err != nil {
		t.Fatalf("move to tail: %v", err)
	}

	sections := sectionPositions(t, svc, set.ID)
	var positions []int
	for _, section := range sections {
		positions = append(positions, section.Position)
	}
	assertContiguous(t, positions)
}
