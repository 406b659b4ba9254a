package panels

import (
	"bytes"
	"html/template"
	"strconv"

	"roteiro/models"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt" data-theme="{{.Theme}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Roteiro</title>
<link rel="stylesheet" href="/static/assets/app.css">
</head>
<body>
<header>
<h1>Roteiro</h1>
<section id="capa">{{.Cover}}</section>
</header>
<div role="tablist" aria-label="Dias do roteiro">
{{- range .Tabs}}
<a role="tab" id="tab-{{.ID}}" href="{{.URL}}" aria-selected="{{.Selected}}" tabindex="{{.TabIndex}}" aria-controls="panel-{{.ID}}">{{.Label}}</a>
{{- end}}
</div>
{{- range .Panels}}
<section role="tabpanel" id="panel-{{.ID}}" aria-labelledby="tab-{{.ID}}"{{if .Hidden}} hidden{{end}}>
{{.Body}}
</section>
{{- end}}
<script src="/static/assets/app.js" defer></script>
</body>
</html>
`))

var dayTmpl = template.Must(template.New("day").Parse(`<article class="dia">
<h2>{{.Title}}</h2>
{{- if .Subtitle}}<p class="subtitulo">{{.Subtitle}}</p>{{end}}
{{- if .Highlight}}<aside class="destaque">{{.Highlight}}</aside>{{end}}
<ul class="agenda">
{{- range .Items}}
<li data-dia="{{$.DayID}}" data-item="{{.Index}}">
{{- if .Time}}<span class="hora">{{.Time}}</span>{{end}}
<label><input type="checkbox" class="feito"{{if .Completed}} checked{{end}}> {{.Content}}</label>
{{- if .Transport}}<span class="transporte">{{.Transport}}</span>{{end}}
<textarea class="nota" placeholder="Nota do diário">{{.Note}}</textarea>
</li>
{{- end}}
</ul>
<nav class="dia-nav">
{{- if .PrevURL}}<a class="anterior" href="{{.PrevURL}}">&larr; Dia anterior</a>{{end}}
{{- if .NextURL}}<a class="seguinte" href="{{.NextURL}}">Dia seguinte &rarr;</a>{{end}}
</nav>
<div class="memorias-do-dia">{{.Memories}}</div>
</article>
`))

var diaryTmpl = template.Must(template.New("diary").Parse(`<article class="diario">
{{- if .Original}}{{.Original}}{{end}}
{{- if .Entries}}
<ul class="notas">
{{- range .Entries}}
<li><strong>Dia {{.Day}}</strong> {{.Note}}</li>
{{- end}}
</ul>
{{- else}}
<p class="vazio">Ainda não há notas no diário.</p>
{{- end}}
</article>
`))

type dayItemVM struct {
	Index     int
	Time      string
	Content   template.HTML
	Transport template.HTML
	Completed bool
	Note      string
}

type dayVM struct {
	DayID     int
	Title     template.HTML
	Subtitle  template.HTML
	Highlight template.HTML
	Items     []dayItemVM
	PrevURL   string
	NextURL   string
	Memories  template.HTML
}

// RenderPanel produces the body markup for a built panel. The panel object
// itself is memoized; the body pulls live state so targeted updates (a
// toggled item, a refreshed memories block) show up without a rebuild.
// The memories placements are rendered against the requesting session, so
// one logged-in visitor never leaks cards into another visitor's page.
func (c *Controller) RenderPanel(p *Panel, authed bool) (template.HTML, error) {
	switch p.ID {
	case ViewDiary:
		return c.renderDiary()
	case ViewMemories:
		return c.memories.PanelBlock(authed), nil
	default:
		return c.renderDay(p.Day, authed)
	}
}

func (c *Controller) renderDay(day models.Day, authed bool) (template.HTML, error) {
	vm := dayVM{
		DayID:     day.ID,
		Title:     template.HTML(day.Title),
		Subtitle:  template.HTML(day.Subtitle),
		Highlight: template.HTML(day.Highlight),
		Memories:  c.memories.DayBlock(strconv.Itoa(day.ID), authed),
	}
	for i, item := range day.Schedule {
		st := c.store.Get(day.ID, i)
		vm.Items = append(vm.Items, dayItemVM{
			Index:     i,
			Time:      item.Time,
			Content:   template.HTML(item.Content),
			Transport: template.HTML(item.Transport),
			Completed: st.Completed,
			Note:      st.Note,
		})
	}
	prev, next := c.Adjacent(day.ID)
	if prev != "" {
		vm.PrevURL = "/?dia=" + prev
	}
	if next != "" {
		vm.NextURL = "/?dia=" + next
	}

	var buf bytes.Buffer
	if err := dayTmpl.Execute(&buf, vm); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (c *Controller) renderDiary() (template.HTML, error) {
	data := struct {
		Original template.HTML
		Entries  []models.DiaryEntry
	}{
		Original: c.diary,
		Entries:  c.store.Diary(),
	}
	var buf bytes.Buffer
	if err := diaryTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

type panelVM struct {
	ID     string
	Hidden bool
	Body   template.HTML
}

// RenderPage renders the whole document: tab strip, every built panel
// (hidden unless active) and the cover memories section.
func (c *Controller) RenderPage(authed bool) ([]byte, error) {
	active := c.Active()

	c.mu.Lock()
	built := make([]*Panel, 0, len(c.panels))
	for _, id := range c.ViewIDs() {
		if p, ok := c.panels[id]; ok {
			built = append(built, p)
		}
	}
	c.mu.Unlock()

	var panels []panelVM
	for _, p := range built {
		body, err := c.RenderPanel(p, authed)
		if err != nil {
			return nil, err
		}
		panels = append(panels, panelVM{ID: p.ID, Hidden: p.ID != active, Body: body})
	}

	data := struct {
		Theme  string
		Cover  template.HTML
		Tabs   []Tab
		Panels []panelVM
	}{
		Theme:  c.theme(),
		Cover:  c.memories.CoverBlock(authed),
		Tabs:   c.TabStrip(),
		Panels: panels,
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Controller) theme() string {
	if t := c.store.Theme(); t == "dark" {
		return "dark"
	}
	return "light"
}
