package memories

import (
	"net/http"
	"strings"

	"roteiro/models"
	"roteiro/utils"
)

// ListQuery is the validated shape of the list endpoint's filters. The
// server does all the filtering; the client only re-fetches.
type ListQuery struct {
	Q      string // matches title or text, case-insensitive
	Status string // exact match
	From   string // inclusive ISO date lower bound
	To     string // inclusive ISO date upper bound
	Day    string // exact string compare; "" means no day filtering
}

func ParseListQuery(r *http.Request) ListQuery {
	q := r.URL.Query()
	return ListQuery{
		Q:      strings.TrimSpace(q.Get("q")),
		Status: strings.TrimSpace(q.Get("status")),
		From:   strings.TrimSpace(q.Get("from")),
		To:     strings.TrimSpace(q.Get("to")),
		Day:    strings.TrimSpace(q.Get("day")),
	}
}

// Matches applies every active filter to one memory. Date bounds compare
// lexically, which is correct for ISO 8601 strings.
func (q ListQuery) Matches(m models.Memory) bool {
	if q.Q != "" && !utils.ContainsIgnoreCase(m.Title, q.Q) && !utils.ContainsIgnoreCase(m.Text, q.Q) {
		return false
	}
	if q.Status != "" && m.Status != q.Status {
		return false
	}
	if q.From != "" && m.Date < q.From {
		return false
	}
	if q.To != "" && !dateWithinUpper(m.Date, q.To) {
		return false
	}
	if q.Day != "" && m.Day != q.Day {
		return false
	}
	return true
}

// dateWithinUpper keeps a timestamped date inside a date-only upper bound:
// "2026-03-05T18:00:00" is still within to=2026-03-05.
func dateWithinUpper(date, to string) bool {
	if len(date) > len(to) && strings.HasPrefix(date, to) {
		return true
	}
	return date <= to
}

// Filter returns the memories matching q, preserving order.
func (q ListQuery) Filter(mems []models.Memory) []models.Memory {
	out := make([]models.Memory, 0, len(mems))
	for _, m := range mems {
		if q.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}
