package memories

import (
	"io"
	"net/http"

	"roteiro/live"
)

// Progress events fire at most once per received step so slow uploads do
// not flood the hub.
const progressStep = 256 << 10

// trackReceipt wraps the request body so upload progress reflects bytes
// actually received from the client instead of the later disk write,
// which only starts after the whole body has already arrived.
func (h *Handlers) trackReceipt(r *http.Request) {
	if h.hub == nil || r.ContentLength <= 0 {
		return
	}
	r.Body = &progressReader{
		body:  r.Body,
		total: r.ContentLength,
		send:  h.hub.Broadcast,
	}
}

type progressReader struct {
	body     io.ReadCloser
	total    int64
	read     int64
	reported int64
	send     func(live.Event)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.body.Read(b)
	p.read += int64(n)
	if p.read-p.reported >= progressStep || (err != nil && p.read > p.reported) {
		p.reported = p.read
		fraction := float64(p.read) / float64(p.total)
		if fraction > 1 {
			fraction = 1
		}
		p.send(live.Event{Action: "upload-progress", Fraction: fraction})
	}
	return n, err
}

func (p *progressReader) Close() error { return p.body.Close() }
