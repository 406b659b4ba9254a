package memories

import (
	"bytes"
	"html/template"
	"time"

	"roteiro/filemgr"
	"roteiro/models"
	"roteiro/utils"
)

const cardTextLimit = 160

var cardsTmpl = template.Must(template.New("cards").Parse(`{{if not .}}<p class="memorias-vazio">Ainda não há memórias aqui.</p>{{end}}{{range .}}<article class="memoria" data-memoria="{{.ID}}">
  <h4>{{.Title}}</h4>
  <p class="memoria-meta">{{.Meta}}</p>
  {{if .Text}}<p class="memoria-texto">{{.Text}}</p>{{end}}
  {{if .Location}}<p class="memoria-local">{{.Location}}</p>{{end}}
  {{if .Tags}}<ul class="memoria-tags">{{range .Tags}}<li>{{.}}</li>{{end}}</ul>{{end}}
  {{range .Media}}{{if eq .Kind "image"}}<img src="{{.Thumb}}" data-full="{{.URL}}" alt="" loading="lazy">{{else}}<video src="{{.URL}}" controls preload="metadata"></video>{{end}}{{end}}
  {{if .Reactions}}<p class="memoria-reacoes">{{range $k, $v := .Reactions}}<span data-reacao="{{$k}}">{{$k}} {{$v}}</span>{{end}}</p>{{end}}
</article>
{{end}}`))

type mediaVM struct {
	URL   string
	Thumb string
	Kind  string
}

type cardVM struct {
	ID        string
	Title     string
	Meta      string
	Text      string
	Location  string
	Tags      []string
	Media     []mediaVM
	Reactions map[string]int
}

func cardData(m models.Memory) cardVM {
	vm := cardVM{
		ID:        m.ID,
		Title:     m.Title,
		Text:      utils.Truncate(m.Text, cardTextLimit),
		Location:  m.Location,
		Tags:      m.Tags,
		Reactions: m.Reactions,
	}
	if vm.Title == "" {
		vm.Title = "Sem título"
	}
	vm.Meta = formatDate(m.Date)
	if m.Status != "" {
		if vm.Meta != "" {
			vm.Meta += " · "
		}
		vm.Meta += m.Status
	}
	for _, url := range m.Media {
		switch {
		case filemgr.IsImage(url):
			vm.Media = append(vm.Media, mediaVM{URL: url, Thumb: filemgr.ThumbURL(url), Kind: "image"})
		case filemgr.IsVideo(url):
			vm.Media = append(vm.Media, mediaVM{URL: url, Kind: "video"})
		}
	}
	return vm
}

func formatDate(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}

// RenderCards turns a memory list into the card markup both the day blocks
// and the panel list share.
func RenderCards(mems []models.Memory) template.HTML {
	vms := make([]cardVM, 0, len(mems))
	for _, m := range mems {
		vms = append(vms, cardData(m))
	}
	var buf bytes.Buffer
	if err := cardsTmpl.Execute(&buf, vms); err != nil {
		return template.HTML("")
	}
	return template.HTML(buf.String())
}
