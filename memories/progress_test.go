package memories

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"roteiro/live"
)

func TestProgressReaderReportsReceipt(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 600<<10)
	var events []live.Event
	pr := &progressReader{
		body:  io.NopCloser(bytes.NewReader(payload)),
		total: int64(len(payload)),
		send:  func(e live.Event) { events = append(events, e) },
	}

	// small reads, the way multipart parsing consumes the body
	if _, err := io.CopyBuffer(io.Discard, pr, make([]byte, 32<<10)); err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(events) < 2 {
		t.Fatalf("expected periodic events, got %d", len(events))
	}
	for i, e := range events {
		if e.Action != "upload-progress" {
			t.Fatalf("event %d action = %q", i, e.Action)
		}
		if i > 0 && e.Fraction < events[i-1].Fraction {
			t.Fatalf("fraction went backwards at event %d: %v", i, events)
		}
	}
	if last := events[len(events)-1]; last.Fraction != 1 {
		t.Fatalf("final fraction = %v, want 1", last.Fraction)
	}
}

func TestTrackReceiptWrapsBody(t *testing.T) {
	hub := live.NewHub()
	go hub.Run()
	defer hub.Stop()

	h := &Handlers{hub: hub}
	r := httptest.NewRequest("POST", "/api/memories", bytes.NewReader([]byte("corpo")))
	h.trackReceipt(r)
	if _, ok := r.Body.(*progressReader); !ok {
		t.Fatal("body not wrapped for receipt tracking")
	}

	// nothing to track without a hub or a sized body
	plain := &Handlers{}
	r2 := httptest.NewRequest("POST", "/api/memories", bytes.NewReader([]byte("corpo")))
	plain.trackReceipt(r2)
	if _, ok := r2.Body.(*progressReader); ok {
		t.Fatal("body wrapped without a hub")
	}
}
