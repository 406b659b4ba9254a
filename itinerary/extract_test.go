package itinerary

import (
	"strings"
	"testing"
)

const sampleMarkup = `<!DOCTYPE html>
<html><head><title>Roteiro</title></head><body>
<header id="capa"><h1>Viagem</h1></header>
<section data-dia="1">
  <h2>Chegada a <em>Lisboa</em></h2>
  <p class="subtitulo">Do aeroporto ao hotel</p>
  <p class="destaque">Miradouro ao pôr do sol</p>
  <ul>
    <li><span class="hora">09:30</span> Aterragem <span class="transporte">metro</span></li>
    <li><span class="hora">13:00</span> Almoço no bairro</li>
    <li>Passeio livre</li>
  </ul>
</section>
<section data-dia="2">
  <h2>Sintra</h2>
  <ul>
    <li><span class="hora">08:00</span> Comboio <span class="transporte">CP</span></li>
  </ul>
</section>
<section data-dia="abc"><h2>Inválido</h2></section>
<section data-dia="0"><h2>Zero</h2></section>
<section id="diario"><p>Primeira nota</p></section>
<footer>fim</footer>
</body></html>`

func TestParseExtractsDaysInOrder(t *testing.T) {
	src, err := Parse(sampleMarkup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(src.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(src.Days))
	}
	if src.Days[0].ID != 1 || src.Days[1].ID != 2 {
		t.Fatalf("unexpected day ids: %d, %d", src.Days[0].ID, src.Days[1].ID)
	}
}

func TestParseDayFields(t *testing.T) {
	src, err := Parse(sampleMarkup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	d1 := src.Days[0]
	if d1.Title != "Chegada a <em>Lisboa</em>" {
		t.Errorf("title = %q", d1.Title)
	}
	if d1.Subtitle != "Do aeroporto ao hotel" {
		t.Errorf("subtitle = %q", d1.Subtitle)
	}
	if d1.Highlight != "Miradouro ao pôr do sol" {
		t.Errorf("highlight = %q", d1.Highlight)
	}
	if len(d1.Schedule) != 3 {
		t.Fatalf("expected 3 schedule items, got %d", len(d1.Schedule))
	}

	first := d1.Schedule[0]
	if first.Time != "09:30" || first.Transport != "metro" {
		t.Errorf("first item = %+v", first)
	}
	if strings.Contains(first.Content, "09:30") || strings.Contains(first.Content, "metro") {
		t.Errorf("time/transport not stripped from content: %q", first.Content)
	}
	if !strings.Contains(first.Content, "Aterragem") {
		t.Errorf("content lost: %q", first.Content)
	}

	// absent hora/transporte stay zero
	if d1.Schedule[2].Time != "" || d1.Schedule[2].Transport != "" {
		t.Errorf("third item should have no time/transport: %+v", d1.Schedule[2])
	}

	// absent subtitle/highlight stay zero
	d2 := src.Days[1]
	if d2.Subtitle != "" || d2.Highlight != "" {
		t.Errorf("day 2 should have no subtitle/highlight: %+v", d2)
	}
}

func TestParsePrunesDayBlocks(t *testing.T) {
	src, err := Parse(sampleMarkup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(src.PageHTML, "data-dia") {
		t.Error("day blocks not pruned from PageHTML")
	}
	if strings.Contains(src.PageHTML, "Sintra") {
		t.Error("day content still present in PageHTML")
	}
	if !strings.Contains(src.PageHTML, `id="capa"`) || !strings.Contains(src.PageHTML, "fim") {
		t.Error("unrelated markup should survive pruning")
	}
}

func TestParseSkipsMalformedDayIDs(t *testing.T) {
	src, err := Parse(sampleMarkup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, d := range src.Days {
		if d.ID <= 0 {
			t.Errorf("non-positive day id kept: %d", d.ID)
		}
	}
	// malformed blocks are still pruned from the page
	if strings.Contains(src.PageHTML, "Inválido") || strings.Contains(src.PageHTML, "Zero") {
		t.Error("malformed day blocks should be pruned too")
	}
}

func TestParseCapturesDiary(t *testing.T) {
	src, err := Parse(sampleMarkup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !strings.Contains(src.DiaryHTML, "Primeira nota") {
		t.Errorf("diary not captured: %q", src.DiaryHTML)
	}
}

func TestParseWithoutDays(t *testing.T) {
	src, err := Parse("<html><body><p>nada</p></body></html>")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(src.Days) != 0 {
		t.Fatalf("expected no days, got %d", len(src.Days))
	}
	if src.DiaryHTML != "" {
		t.Errorf("unexpected diary: %q", src.DiaryHTML)
	}
}

func TestDayByID(t *testing.T) {
	src, _ := Parse(sampleMarkup)
	if d, ok := src.DayByID(2); !ok || d.Title != "Sintra" {
		t.Fatalf("DayByID(2) = %+v, %v", d, ok)
	}
	if _, ok := src.DayByID(9); ok {
		t.Fatal("DayByID(9) should miss")
	}
}
