// Package filter selects catalog entries that lack a comparison on a given host.
package filter

import (
	"iter"
	"strings"

	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/domain"
)

// HasComparisonOn reports whether any comparison link of entry starts with host.
func HasComparisonOn(entry domain.CatalogEntry, host string) bool {
	for _, link := range entry.Comparisons {
		if strings.HasPrefix(link, host) {
			return true
		}
	}
	return false
}

// MissingComparisons yields the entries of seq without a comparison on host.
// Errors from seq are passed through and end the sequence.
func MissingComparisons(seq iter.Seq2[domain.CatalogEntry, error], host string, log zerolog.Logger) iter.Seq2[domain.CatalogEntry, error] {
	return func(yield func(domain.CatalogEntry, error) bool) {
		for entry, err := range seq {
			if err != nil {
				yield(domain.CatalogEntry{}, err)
				return
			}
			if HasComparisonOn(entry, host) {
				continue
			}

			log.Debug().Int("anilist_id", entry.ID).Str("url", entry.URL).Msg("Missing comparison")
			if !yield(entry, nil) {
				return
			}
		}
	}
}
