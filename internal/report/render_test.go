package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/varoOP/nocomps/internal/domain"
)

func TestRender_Table(t *testing.T) {
	rows := []domain.ReportRow{
		{
			Title:      "Frieren: Beyond Journey's End",
			Year:       intp(2023),
			Score:      intp(91),
			Popularity: intp(400000),
			SeaDexURL:  "https://releases.moe/154587/",
			AniListURL: "https://anilist.co/anime/154587",
		},
		{
			Title:      "Mushishi",
			SeaDexURL:  "https://releases.moe/457/",
			AniListURL: "https://anilist.co/anime/457",
		},
	}

	var buf bytes.Buffer
	if err := Render(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2+len(rows) {
		t.Fatalf("expected %d lines, got %d:\n%s", 2+len(rows), len(lines), buf.String())
	}

	header := cellsOf(lines[0])
	if strings.Join(header, ",") != "Idx,Title,Year,Score,Links" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	for _, sep := range cellsOf(lines[1]) {
		if !strings.HasPrefix(sep, ":-") || strings.Trim(sep, ":-") != "" {
			t.Fatalf("unexpected separator line: %q", lines[1])
		}
	}

	first := cellsOf(lines[2])
	if first[0] != "1" || first[1] != rows[0].Title || first[2] != "2023" || first[3] != "91" {
		t.Fatalf("unexpected first row: %q", lines[2])
	}
	if first[4] != "[SeaDex](https://releases.moe/154587/), [AniList](https://anilist.co/anime/154587)" {
		t.Fatalf("unexpected links cell: %q", first[4])
	}

	second := cellsOf(lines[3])
	if second[0] != "2" || second[1] != "Mushishi" || second[2] != "" || second[3] != "" {
		t.Fatalf("absent year and score must render blank: %q", lines[3])
	}

	width := cellWidth.StringWidth(lines[0])
	for _, line := range lines {
		if cellWidth.StringWidth(line) != width {
			t.Fatalf("columns are not aligned:\n%s", buf.String())
		}
	}
}

func TestRender_OneRowPerInputInOrder(t *testing.T) {
	var rows []domain.ReportRow
	for i := 0; i < 12; i++ {
		rows = append(rows, domain.ReportRow{Title: fmt.Sprintf("title-%02d", i)})
	}

	var buf bytes.Buffer
	if err := Render(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")[2:]
	if len(lines) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(lines))
	}
	for i, line := range lines {
		cells := cellsOf(line)
		if cells[0] != fmt.Sprint(i+1) || cells[1] != rows[i].Title {
			t.Fatalf("line %d = %q", i, line)
		}
	}
}

func TestRender_WideAndPipeTitles(t *testing.T) {
	rows := []domain.ReportRow{
		{Title: "葬送のフリーレン"},
		{Title: "Fate/stay night | UBW"},
	}

	var buf bytes.Buffer
	if err := Render(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `Fate/stay night \| UBW`) {
		t.Fatalf("pipe in title must be escaped:\n%s", out)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	width := cellWidth.StringWidth(lines[0])
	for _, line := range lines {
		if cellWidth.StringWidth(line) != width {
			t.Fatalf("wide characters broke alignment:\n%s", out)
		}
	}
}

func TestRender_IgnoresLocaleWidth(t *testing.T) {
	rows := []domain.ReportRow{
		{Title: "Re:Zero − Starting Life ★", SeaDexURL: "s", AniListURL: "a"},
		{Title: "Short", SeaDexURL: "s", AniListURL: "a"},
	}

	render := func(eastAsian bool) string {
		prev := runewidth.DefaultCondition
		runewidth.DefaultCondition = &runewidth.Condition{EastAsianWidth: eastAsian}
		defer func() { runewidth.DefaultCondition = prev }()

		var buf bytes.Buffer
		if err := Render(&buf, rows); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return buf.String()
	}

	narrow, wide := render(false), render(true)
	if narrow != wide {
		t.Fatalf("output depends on locale width:\n%s\nvs\n%s", narrow, wide)
	}
}

func TestDocument_StartsWithHeader(t *testing.T) {
	doc, err := Document(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.ReportHeader +
		"| Idx | Title | Year | Score | Links |\n" +
		"| :-- | :---- | :--- | :---- | :---- |\n"
	if string(doc) != want {
		t.Fatalf("unexpected document:\n%q\nwant:\n%q", doc, want)
	}
}

// cellsOf splits a table line into trimmed cells, honouring escaped pipes.
func cellsOf(line string) []string {
	line = strings.ReplaceAll(line, `\|`, "\x00")
	parts := strings.Split(strings.Trim(line, "|"), "|")
	for i, p := range parts {
		parts[i] = strings.ReplaceAll(strings.TrimSpace(p), "\x00", `\|`)
	}
	return parts
}
