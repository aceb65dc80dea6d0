package dedupe

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/domain"
)

func TestUnique_KeepsFirstOccurrence(t *testing.T) {
	entries := []domain.CatalogEntry{
		{ID: 10, URL: "first"},
		{ID: 20},
		{ID: 10, URL: "second"},
		{ID: 30},
		{ID: 20},
	}

	unique, dupes := NewService(zerolog.Nop()).Unique(entries)

	if dupes != 2 {
		t.Fatalf("dupes = %d, want 2", dupes)
	}
	if len(unique) != 3 {
		t.Fatalf("len(unique) = %d, want 3", len(unique))
	}
	for i, id := range []int{10, 20, 30} {
		if unique[i].ID != id {
			t.Fatalf("unique[%d].ID = %d, want %d", i, unique[i].ID, id)
		}
	}
	if unique[0].URL != "first" {
		t.Fatalf("expected the first entry to win, got %q", unique[0].URL)
	}
}

func TestUnique_Empty(t *testing.T) {
	unique, dupes := NewService(zerolog.Nop()).Unique(nil)
	if len(unique) != 0 || dupes != 0 {
		t.Fatalf("unexpected result: %v, %d", unique, dupes)
	}
}
