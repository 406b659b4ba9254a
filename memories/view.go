package memories

import (
	"bytes"
	"context"
	"html/template"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roteiro/db"
	"roteiro/live"
	"roteiro/models"
)

// View renders the memories widget in its three placements: the per-day
// strip, the cover strip and the dedicated panel. Rendered blocks are
// cached until a refresh replaces them, so page builds never hit Mongo.
type View struct {
	mu        sync.Mutex
	hub       *live.Hub
	dayIDs    []string
	dayBlocks map[string]template.HTML
	cover     template.HTML
}

func NewView(hub *live.Hub, dayIDs []string) *View {
	return &View{
		hub:       hub,
		dayIDs:    dayIDs,
		dayBlocks: make(map[string]template.HTML),
	}
}

// LoggedIn and LoggedOut let the auth handlers drive the widget. Login
// warms the caches; losing the session drops them and tells connected
// pages to drop theirs too.
func (v *View) LoggedIn(ctx context.Context) {
	v.RefreshAll(ctx)
	v.RefreshCover(ctx)
}

func (v *View) LoggedOut(ctx context.Context) {
	v.ClearAll()
}

// ClearAll drops every cached block and broadcasts the logged-out event.
func (v *View) ClearAll() {
	v.mu.Lock()
	v.dayBlocks = make(map[string]template.HTML)
	v.cover = ""
	v.mu.Unlock()

	if v.hub != nil {
		v.hub.Broadcast(live.Event{Action: "logged-out"})
	}
}

// DayBlock returns the strip for one itinerary day. Cached card markup is
// served only to authenticated requests; everyone else gets the login
// prompt, no matter what the cache holds.
func (v *View) DayBlock(dayID string, authed bool) template.HTML {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !authed {
		return blockMarkup("memorias-dia", "dia-"+dayID, "", false)
	}
	if block, ok := v.dayBlocks[dayID]; ok {
		return block
	}
	return blockMarkup("memorias-dia", "dia-"+dayID, "", true)
}

func (v *View) CoverBlock(authed bool) template.HTML {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !authed {
		return blockMarkup("memorias-capa", "capa", "", false)
	}
	if v.cover != "" {
		return v.cover
	}
	return blockMarkup("memorias-capa", "capa", "", true)
}

// RenderDay installs the strip for one day from an explicit memory list.
// A nil list means "no data" and clears the block instead.
func (v *View) RenderDay(dayID string, mems []models.Memory) {
	if mems == nil {
		v.ClearDay(dayID)
		return
	}
	v.mu.Lock()
	v.dayBlocks[dayID] = blockMarkup("memorias-dia", "dia-"+dayID, string(RenderCards(mems)), true)
	v.mu.Unlock()

	if v.hub != nil {
		v.hub.Broadcast(live.Event{Action: "refresh-day", Day: dayID})
	}
}

func (v *View) ClearDay(dayID string) {
	v.mu.Lock()
	delete(v.dayBlocks, dayID)
	v.mu.Unlock()

	if v.hub != nil {
		v.hub.Broadcast(live.Event{Action: "refresh-day", Day: dayID})
	}
}

// RenderCover and ClearCover are the cover-strip counterparts.
func (v *View) RenderCover(mems []models.Memory) {
	if mems == nil {
		v.ClearCover()
		return
	}
	v.mu.Lock()
	v.cover = blockMarkup("memorias-capa", "capa", string(RenderCards(mems)), true)
	v.mu.Unlock()

	if v.hub != nil {
		v.hub.Broadcast(live.Event{Action: "refresh-cover"})
	}
}

func (v *View) ClearCover() {
	v.mu.Lock()
	v.cover = ""
	v.mu.Unlock()

	if v.hub != nil {
		v.hub.Broadcast(live.Event{Action: "refresh-cover"})
	}
}

// RefreshDay re-renders one day strip from storage and notifies pages.
func (v *View) RefreshDay(ctx context.Context, dayID string) error {
	mems, err := fetchByDay(ctx, dayID)
	if err != nil {
		return err
	}
	if mems == nil {
		mems = []models.Memory{}
	}
	v.RenderDay(dayID, mems)
	return nil
}

// RefreshAll rebuilds every day strip. Failures are logged and skipped so
// one bad day cannot wedge the rest.
func (v *View) RefreshAll(ctx context.Context) {
	for _, id := range v.dayIDs {
		if err := v.RefreshDay(ctx, id); err != nil {
			log.Printf("memories: refresh day %s: %v", id, err)
		}
	}
}

// RefreshCover rebuilds the cover strip (memories with no day attached).
func (v *View) RefreshCover(ctx context.Context) error {
	mems, err := fetchByDay(ctx, "")
	if err != nil {
		return err
	}
	if mems == nil {
		mems = []models.Memory{}
	}
	v.RenderCover(mems)
	return nil
}

func fetchByDay(ctx context.Context, dayID string) ([]models.Memory, error) {
	filter := bson.M{"day": dayID}
	if dayID == "" {
		filter = bson.M{"$or": bson.A{bson.M{"day": ""}, bson.M{"day": bson.M{"$exists": false}}}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := db.MemoriesCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var mems []models.Memory
	if err := cursor.All(ctx, &mems); err != nil {
		return nil, err
	}
	return mems, nil
}

var blockTmpl = template.Must(template.New("block").Parse(`<section class="{{.Class}}" data-bloco="{{.Anchor}}">
{{if .Cards}}{{.Cards}}{{else if .LoggedIn}}<p class="memorias-vazio">Ainda não há memórias aqui.</p>{{else}}<p class="memorias-vazio">Entre para ver as memórias.</p>{{end}}
</section>`))

func blockMarkup(class, anchor, cards string, authed bool) template.HTML {
	var buf bytes.Buffer
	err := blockTmpl.Execute(&buf, struct {
		Class    string
		Anchor   string
		Cards    template.HTML
		LoggedIn bool
	}{class, anchor, template.HTML(cards), authed})
	if err != nil {
		return template.HTML("")
	}
	return template.HTML(buf.String())
}

var panelTmpl = template.Must(template.New("panel").Parse(`<div class="memorias-painel">
{{if not .LoggedIn}}<form class="memorias-login" method="post" action="/api/auth/login">
  <label>Utilizador <input name="username" autocomplete="username" required></label>
  <label>Senha <input name="password" type="password" autocomplete="current-password" required></label>
  <button type="submit">Entrar</button>
</form>{{else}}<form class="memorias-logout" method="post" action="/api/auth/logout"><button type="submit">Sair</button></form>
<form class="memorias-publicar" method="post" action="/api/memories" enctype="multipart/form-data">
  <label>Título <input name="title" required></label>
  <label>Texto <textarea name="text"></textarea></label>
  <label>Data <input name="date" type="datetime-local"></label>
  <label>Local <input name="location"></label>
  <label>Etiquetas <input name="tags" placeholder="praia, jantar"></label>
  <label>Dia <select name="day"><option value="">Capa</option>{{range .DayIDs}}<option value="{{.}}">Dia {{.}}</option>{{end}}</select></label>
  <label>Estado <select name="status"><option value="draft">rascunho</option><option value="private">privada</option><option value="public">pública</option></select></label>
  <label>Mídia <input name="media" type="file" multiple accept="image/*,video/*"></label>
  <progress class="memorias-progresso" max="1" value="0" hidden></progress>
  <button type="submit">Publicar</button>
</form>
<form class="memorias-filtro" method="get" action="/api/memories">
  <input name="q" placeholder="Pesquisar">
  <select name="status"><option value="">todas</option><option value="draft">rascunho</option><option value="private">privada</option><option value="public">pública</option></select>
  <input name="from" type="date"> <input name="to" type="date">
  <select name="day"><option value="">todos os dias</option>{{range .DayIDs}}<option value="{{.}}">Dia {{.}}</option>{{end}}</select>
  <button type="submit">Filtrar</button>
</form>
<div class="memorias-lista" data-bloco="painel"></div>{{end}}
</div>`))

// PanelBlock renders the dedicated panel: login form for anonymous
// requests, otherwise the publish form, the filter bar and the list
// container the client fills from the list endpoint.
func (v *View) PanelBlock(authed bool) template.HTML {
	var buf bytes.Buffer
	err := panelTmpl.Execute(&buf, struct {
		LoggedIn bool
		DayIDs   []string
	}{authed, v.dayIDs})
	if err != nil {
		return template.HTML("")
	}
	return template.HTML(buf.String())
}
