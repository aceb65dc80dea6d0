package domain

// ReportRow is one line of the rendered report.
type ReportRow struct {
	Title      string
	Year       *int
	Score      *int
	Popularity *int
	SeaDexURL  string
	AniListURL string
}

// SortKey returns the popularity used for ordering, -1 when absent.
func (r ReportRow) SortKey() int {
	if r.Popularity == nil {
		return -1
	}
	return *r.Popularity
}
