package memories

import (
	"strings"
	"testing"

	"roteiro/models"
)

func TestCardTitleFallback(t *testing.T) {
	vm := cardData(models.Memory{ID: "x"})
	if vm.Title != "Sem título" {
		t.Fatalf("title = %q", vm.Title)
	}
}

func TestCardTextTruncated(t *testing.T) {
	long := strings.Repeat("uma frase comprida ", 20)
	vm := cardData(models.Memory{Text: long})
	if len([]rune(vm.Text)) > cardTextLimit+1 {
		t.Fatalf("text not truncated: %d runes", len([]rune(vm.Text)))
	}
	if !strings.HasSuffix(vm.Text, "…") {
		t.Fatalf("truncated text should end with ellipsis: %q", vm.Text)
	}
}

func TestCardMediaClassification(t *testing.T) {
	vm := cardData(models.Memory{Media: []string{
		"/static/uploads/a.jpg",
		"/static/uploads/b.mp4",
		"/static/uploads/c.txt",
	}})
	if len(vm.Media) != 2 {
		t.Fatalf("media = %+v", vm.Media)
	}
	if vm.Media[0].Kind != "image" || vm.Media[1].Kind != "video" {
		t.Fatalf("media kinds = %+v", vm.Media)
	}
	if !strings.HasSuffix(vm.Media[0].Thumb, "/thumb/a.jpg") {
		t.Fatalf("image thumb = %q", vm.Media[0].Thumb)
	}
}

func TestCardMeta(t *testing.T) {
	vm := cardData(models.Memory{Date: "2026-03-02T10:00:00Z", Status: models.StatusPublic})
	if vm.Meta != "02/03/2026 · public" {
		t.Fatalf("meta = %q", vm.Meta)
	}
}

func TestRenderCardsEmptyState(t *testing.T) {
	html := string(RenderCards(nil))
	if !strings.Contains(html, "memorias-vazio") {
		t.Fatalf("empty list should render the empty-state message: %q", html)
	}
}

func TestRenderCardsEscapesText(t *testing.T) {
	html := string(RenderCards([]models.Memory{{Title: "<script>alert(1)</script>"}}))
	if strings.Contains(html, "<script>") {
		t.Fatal("card title must be escaped")
	}
}
