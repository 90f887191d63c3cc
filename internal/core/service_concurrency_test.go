package core

import (
	"context"
	"sort"
	"sync"
	"testing"
)

func TestConcurrentAppendsYieldDistinctPositions(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent append: %v", err)
	}

	sections := sectionPositions(t, svc, set.ID)
	if len(sections) != writers {
		t.Fatalf("expected %d sections, got %d", writers, len(sections))
	}
	var positions []int
	for _, section := range sections {
		positions = append(positions, section.Position)
	}
	sort.Ints(positions)
	for i, p := range positions {
		if p != i {
			t.Fatalf("positions not dense: %v", positions)
		}
	}
}

func TestConcurrentPlacementsStayContiguous(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()
	set := mustCreateSet(t, svc, scope)
	sectionType := mustCreateSectionType(t, svc, scope, "Worship")
	section, _, err := svc.AddSection(ctx, scope, set.ID, sectionType.ID, nil)
	if err != nil {
		t.Fatalf("add section: %v", err)
	}

	const writers = 6
	songs := make([]Song, writers)
	for i := range songs {
		songs[i] = mustCreateSong(t, svc, scope, "Song "+string(rune('A'+i)))
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(song Song) {
			defer wg.Done()
			if _, _, err := svc.AddSongToSection(ctx, scope, section.ID, song.ID, nil, nil); err != nil {
				errs <- err
			}
		}(songs[i])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent placement: %v", err)
	}

	got := placements(t, svc, section.ID)
	if len(got) != writers {
		t.Fatalf("expected %d placements, got %d", writers, len(got))
	}
	var positions []int
	for _, placement := range got {
		positions = append(positions, placement.Position)
	}
	assertContiguous(t, positions)
}
