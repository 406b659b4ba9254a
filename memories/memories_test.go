package memories

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestCreateRequiresTitle(t *testing.T) {
	h := NewHandlers(nil, nil)
	body, contentType := multipartBody(t, map[string]string{"title": "   ", "text": "sem título"})

	r := httptest.NewRequest("POST", "/api/memories", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.Create(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Título é obrigatório") {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestCreateRejectsBadStatus(t *testing.T) {
	h := NewHandlers(nil, nil)
	body, contentType := multipartBody(t, map[string]string{"title": "Praia", "status": "segredo"})

	r := httptest.NewRequest("POST", "/api/memories", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.Create(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
