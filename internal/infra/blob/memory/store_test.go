package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"setcore/internal/blob/core"
)

func TestPutGetDeleteRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	info, err := store.Put(ctx, "charts/amazing-grace.pdf", strings.NewReader("chart data"), core.PutOptions{ContentType: "application/pdf"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("chart data")) || info.ContentType != "application/pdf" {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, err := store.Put(ctx, "charts/amazing-grace.pdf", strings.NewReader("dup"), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate put to fail")
	}

	got, rc, err := store.Get(ctx, "charts/amazing-grace.pdf")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "chart data" || got.Key != info.Key {
		t.Fatalf("unexpected content %q info %+v", data, got)
	}

	existed, err := store.Delete(ctx, "charts/amazing-grace.pdf")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	if _, _, err := store.Get(ctx, "charts/amazing-grace.pdf"); err == nil {
		t.Fatalf("expected get after delete to fail")
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, key := range []string{"resources/org-a/r1", "resources/org-a/r2", "resources/org-b/r3"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "resources/org-a/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "resources/org-a/r1" || infos[1].Key != "resources/org-a/r2" {
		t.Fatalf("unexpected listing: %+v", infos)
	}
}

func TestPresignUnsupported(t *testing.T) {
	store := New()
	if _, err := store.PresignURL(context.Background(), "k", core.SignedURLOptions{}); !errors.Is(err, core.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
