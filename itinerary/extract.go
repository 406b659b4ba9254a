package itinerary

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"roteiro/models"

	"golang.org/x/net/html"
)

// Source is the parsed itinerary document. Extraction runs exactly once at
// startup: the day blocks are converted to Day records and pruned from the
// retained markup, so PageHTML no longer contains them.
type Source struct {
	Days      []models.Day
	DiaryHTML string // inner markup of the original diary section, "" if none
	PageHTML  string // remaining document after the day blocks were removed
}

// LoadFile reads and extracts the itinerary source document.
func LoadFile(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(raw))
}

// Parse extracts day blocks from the markup. A block with a malformed or
// missing data-dia attribute is dropped (data-quality defect, not an error).
func Parse(markup string) (*Source, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	src := &Source{}
	for _, section := range collect(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrVal(n, "data-dia") != ""
	}) {
		id, err := strconv.Atoi(strings.TrimSpace(attrVal(section, "data-dia")))
		removeNode(section)
		if err != nil || id <= 0 {
			continue
		}
		src.Days = append(src.Days, extractDay(id, section))
	}

	if diary := findFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrVal(n, "id") == "diario"
	}); diary != nil {
		src.DiaryHTML = innerHTML(diary)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	src.PageHTML = buf.String()
	return src, nil
}

func extractDay(id int, section *html.Node) models.Day {
	day := models.Day{ID: id}

	if h := findFirst(section, isElement("h2")); h != nil {
		day.Title = innerHTML(h)
	}
	if sub := findFirst(section, hasClass("subtitulo")); sub != nil {
		day.Subtitle = innerHTML(sub)
	}
	if dest := findFirst(section, hasClass("destaque")); dest != nil {
		day.Highlight = innerHTML(dest)
	}

	for _, li := range collect(section, isElement("li")) {
		item := models.ScheduleItem{}
		if hora := findFirst(li, hasClass("hora")); hora != nil {
			item.Time = strings.TrimSpace(textContent(hora))
			removeNode(hora)
		}
		if tr := findFirst(li, hasClass("transporte")); tr != nil {
			item.Transport = strings.TrimSpace(innerHTML(tr))
			removeNode(tr)
		}
		item.Content = strings.TrimSpace(innerHTML(li))
		day.Schedule = append(day.Schedule, item)
	}
	return day
}

// DayByID does the ±1 adjacency lookups for panel navigation.
func (s *Source) DayByID(id int) (models.Day, bool) {
	for _, d := range s.Days {
		if d.ID == id {
			return d, true
		}
	}
	return models.Day{}, false
}
