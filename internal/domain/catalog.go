package domain

import (
	"context"
	"iter"
)

// CatalogEntry is a curated SeaDex release and the comparison links attached to it.
type CatalogEntry struct {
	// ID is the AniList identifier of the anime.
	ID          int
	Comparisons []string
	// URL is the canonical SeaDex page of the entry.
	URL string
}

// CatalogSource yields every catalog entry once. The sequence is lazy and
// cannot be restarted; iteration stops at the first error.
type CatalogSource interface {
	Entries(ctx context.Context) iter.Seq2[CatalogEntry, error]
	Close() error
}
