package domain

import "context"

// MediaInfo stores AniList metadata for an anime.
// Year, Score and Popularity are nil when AniList has no value.
type MediaInfo struct {
	ID         int
	Title      string
	Year       *int
	Score      *int
	Popularity *int
	SiteURL    string
}

// MediaLookup resolves AniList identifiers to their metadata.
type MediaLookup interface {
	// Lookup returns the media found for ids and the number of requests made.
	Lookup(ctx context.Context, ids []int) (map[int]MediaInfo, int, error)
	Close() error
}
