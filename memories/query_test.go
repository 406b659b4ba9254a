package memories

import (
	"net/http/httptest"
	"strings"
	"testing"

	"roteiro/models"
)

func sampleMemories() []models.Memory {
	return []models.Memory{
		{ID: "m1", Title: "Dia de praia", Text: "Areia e sol", Status: models.StatusPublic, Date: "2026-03-02", Day: "1"},
		{ID: "m2", Title: "Jantar", Text: "Marisco junto à praia", Status: models.StatusPrivate, Date: "2026-03-03", Day: "2"},
		{ID: "m3", Title: "Rascunho", Text: "ideias soltas", Status: models.StatusDraft, Date: "2026-03-05T18:30:00", Day: ""},
		{ID: "m4", Title: "Museu", Text: "Azulejos", Status: models.StatusPublic, Date: "2026-03-04", Day: "2"},
	}
}

func ids(mems []models.Memory) string {
	out := make([]string, len(mems))
	for i, m := range mems {
		out[i] = m.ID
	}
	return strings.Join(out, ",")
}

func TestFilterText(t *testing.T) {
	got := ListQuery{Q: "PRAIA"}.Filter(sampleMemories())
	if ids(got) != "m1,m2" {
		t.Fatalf("q=PRAIA matched %s", ids(got))
	}
}

func TestFilterStatusAndText(t *testing.T) {
	got := ListQuery{Q: "praia", Status: models.StatusPublic}.Filter(sampleMemories())
	if ids(got) != "m1" {
		t.Fatalf("status=public q=praia matched %s", ids(got))
	}
}

func TestFilterDateBounds(t *testing.T) {
	got := ListQuery{From: "2026-03-03", To: "2026-03-04"}.Filter(sampleMemories())
	if ids(got) != "m2,m4" {
		t.Fatalf("date range matched %s", ids(got))
	}

	// a timestamped date still falls inside a date-only upper bound
	got = ListQuery{To: "2026-03-05"}.Filter(sampleMemories())
	if ids(got) != "m1,m2,m3,m4" {
		t.Fatalf("to=2026-03-05 matched %s", ids(got))
	}
}

func TestFilterDay(t *testing.T) {
	got := ListQuery{Day: "2"}.Filter(sampleMemories())
	if ids(got) != "m2,m4" {
		t.Fatalf("day=2 matched %s", ids(got))
	}
}

func TestEmptyQueryMatchesAll(t *testing.T) {
	got := ListQuery{}.Filter(sampleMemories())
	if len(got) != 4 {
		t.Fatalf("empty query matched %d", len(got))
	}
}

func TestParseListQuery(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/memories?q=+praia+&status=public&from=2026-03-01&to=2026-03-09&day=2", nil)
	q := ParseListQuery(r)
	if q.Q != "praia" || q.Status != "public" || q.From != "2026-03-01" || q.To != "2026-03-09" || q.Day != "2" {
		t.Fatalf("parsed %+v", q)
	}
}
