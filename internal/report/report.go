// Package report turns enriched catalog entries into the markdown report.
package report

import (
	"sort"

	"github.com/varoOP/nocomps/internal/domain"
)

// Join builds one row per entry that has media, keeping the order of entries.
// It returns the ids of the entries without media.
func Join(entries []domain.CatalogEntry, media map[int]domain.MediaInfo) ([]domain.ReportRow, []int) {
	rows := make([]domain.ReportRow, 0, len(entries))
	var missing []int

	for _, entry := range entries {
		m, ok := media[entry.ID]
		if !ok {
			missing = append(missing, entry.ID)
			continue
		}

		rows = append(rows, domain.ReportRow{
			Title:      m.Title,
			Year:       m.Year,
			Score:      m.Score,
			Popularity: m.Popularity,
			SeaDexURL:  entry.URL,
			AniListURL: m.SiteURL,
		})
	}

	return rows, missing
}

// Sort orders rows by popularity, most popular first. Rows without popularity
// rank below every row that has one; equal rows keep their order.
func Sort(rows []domain.ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortKey() > rows[j].SortKey()
	})
}
