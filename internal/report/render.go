package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/varoOP/nocomps/internal/domain"
)

var columns = []string{"Idx", "Title", "Year", "Score", "Links"}

// cellWidth measures cells independently of the process locale.
var cellWidth = &runewidth.Condition{EastAsianWidth: false, StrictEmojiNeutral: true}

// Document returns the report header followed by the rendered table.
func Document(rows []domain.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(domain.ReportHeader)
	if err := Render(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes rows as a left aligned markdown table, numbered from 1.
func Render(w io.Writer, rows []domain.ReportRow) error {
	cells := make([][]string, 0, len(rows))
	for i, row := range rows {
		cells = append(cells, []string{
			strconv.Itoa(i + 1),
			escape(row.Title),
			optional(row.Year),
			optional(row.Score),
			fmt.Sprintf("[SeaDex](%s), [AniList](%s)", row.SeaDexURL, row.AniListURL),
		})
	}

	widths := make([]int, len(columns))
	for i, name := range columns {
		widths[i] = cellWidth.StringWidth(name)
	}
	for _, line := range cells {
		for i, cell := range line {
			widths[i] = max(widths[i], cellWidth.StringWidth(cell))
		}
	}

	var sb strings.Builder
	writeLine(&sb, columns, widths)

	sep := make([]string, len(columns))
	for i, width := range widths {
		sep[i] = ":" + strings.Repeat("-", width-1)
	}
	writeLine(&sb, sep, widths)

	for _, line := range cells {
		writeLine(&sb, line, widths)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrap(err, "failed to write table")
	}
	return nil
}

func writeLine(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(cellWidth.FillRight(cell, widths[i]))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func optional(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// escape keeps titles from breaking the table layout.
func escape(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
