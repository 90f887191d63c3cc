package core

import (
	"context"
	"testing"

	"setcore/pkg/domain"
)

func TestGetSetDetailAssemblesReadModel(t *testing.T) {
	svc, scope := newFixture(t)
	ctx := context.Background()

	set := mustCreateSet(t, svc, scope)
	opening := mustCreateSectionType(t, svc, scope, "Opening")
	worship := mustCreateSectionType(t, svc, scope, "Worship")

	first, _, err := svc.AddSection(ctx, scope, set.ID, opening.ID, nil)
	if err != nil {
		t.Fatalf("add opening: %v", err)
	}
	second, _, err := svc.AddSection(ctx, scope, set.ID, worship.ID, nil)
	if err != nil {
		t.Fatalf("add worship: %v", err)
	}

	grace := mustCreateSong(t, svc, scope, "Amazing Grace")
	vision := mustCreateSong(t, svc, scope, "Be Thou My Vision")

	if _, _, err := svc.AddSongToSection(ctx, scope, first.ID, grace.ID, nil, keyPtr(domain.KeyD)); err != nil {
		t.Fatalf("place grace: %v", err)
	}
	if _, _, err := svc.AddSongToSection(ctx, scope, second.ID, vision.ID, nil, nil); err != nil {
		t.Fatalf("place vision: %v", err)
	}

	ready, _, err := svc.CreateResource(ctx, scope, grace.ID, ResourceInput{Title: "Chart", URL: "https://example.com/c.pdf"})
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}
	if _, _, err := svc.RequestResourceTransition(ctx, scope, ready.ID, domain.ResourceReady); err != nil {
		t.Fatalf("ready transition: %v", err)
	}
	if _, _, err := svc.CreateResource(ctx, scope, grace.ID, ResourceInput{Title: "Click", URL: "https://example.com/k.wav"}); err != nil {
		t.Fatalf("create queued resource: %v", err)
	}

	detail, err := svc.GetSetDetail(ctx, scope, set.ID)
	if err != nil {
		t.Fatalf("get detail: %v", err)
	}
	if detail.Set.ID != set.ID || len(detail.Sections) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.Sections[0].SectionType.Name != "Opening" || detail.Sections[1].SectionType.Name != "Worship" {
		t.Fatalf("sections out of order: %+v", detail.Sections)
	}

	gracePlacement := detail.Sections[0].Songs[0]
	if gracePlacement.Song.ID != grace.ID {
		t.Fatalf("unexpected song: %+v", gracePlacement)
	}
	if gracePlacement.Key != domain.KeyD {
		t.Fatalf("override key not resolved, got %s", gracePlacement.Key)
	}
	if got := gracePlacement.Resources; got.Total != 2 || got.Ready != 1 || got.Queued != 1 || got.Failed != 0 {
		t.Fatalf("unexpected readiness: %+v", got)
	}

	visionPlacement := detail.Sections[1].Songs[0]
	if visionPlacement.Key != vision.DefaultKey {
		t.Fatalf("default key not resolved: got %s want %s", visionPlacement.Key, vision.DefaultKey)
	}
	if visionPlacement.Resources.Total != 0 {
		t.Fatalf("expected no resources, got %+v", visionPlacement.Resources)
	}
}

func TestGetSetDetailUnknownSet(t *testing.T) {
	svc, scope := newFixture(t)
	if _, err := svc.GetSetDetail(context.Background(), scope, "missing"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
