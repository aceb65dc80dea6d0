package domain

import "context"

// ReportRepository persists a rendered report.
type ReportRepository interface {
	Store(ctx context.Context, path string, data []byte) error
}
