package dedupe

import (
	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/domain"
)

type Service interface {
	Unique(entries []domain.CatalogEntry) ([]domain.CatalogEntry, int)
}

type service struct {
	log zerolog.Logger
}

func NewService(log zerolog.Logger) Service {
	return &service{
		log: log.With().Str("module", "dedupe").Logger(),
	}
}

// Unique keeps the first entry of every AniList ID and returns how many were dropped.
func (s *service) Unique(entries []domain.CatalogEntry) ([]domain.CatalogEntry, int) {
	seen := make(map[int]struct{}, len(entries))
	unique := make([]domain.CatalogEntry, 0, len(entries))

	for _, entry := range entries {
		if _, ok := seen[entry.ID]; ok {
			s.log.Debug().
				Int("anilist_id", entry.ID).
				Str("url", entry.URL).
				Msg("Dropping duplicate entry")
			continue
		}
		seen[entry.ID] = struct{}{}
		unique = append(unique, entry)
	}

	dupes := len(entries) - len(unique)
	if dupes > 0 {
		s.log.Info().Int("dupe_count", dupes).Msg("Found duplicates")
	}

	return unique, dupes
}
