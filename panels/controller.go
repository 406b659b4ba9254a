package panels

import (
	"fmt"
	"html/template"
	"strconv"
	"sync"

	"roteiro/itemstate"
	"roteiro/models"
)

// Non-day view identifiers. Day views are identified by their decimal id.
const (
	ViewDiary    = "diario"
	ViewMemories = "memorias"
)

// MemoriesIntegration is the surface the memories view hands to the
// controller: rendered blocks for a day panel and for the cover section,
// scoped to whether the requesting session is authenticated. Injected at
// construction.
type MemoriesIntegration interface {
	DayBlock(dayID string, authed bool) template.HTML
	CoverBlock(authed bool) template.HTML
	PanelBlock(authed bool) template.HTML
}

// Panel is a materialized view. It is built at most once per controller
// lifetime; re-activations only toggle visibility.
type Panel struct {
	ID  string
	Day models.Day // zero for diario/memorias
}

// Controller owns which view is active, materializes panels lazily, and
// reflects the active view into the lastDay preference and the page URL.
// It is an explicit object: itinerary data, the panel registry, and the
// diary section all live here, not in package globals.
type Controller struct {
	mu       sync.Mutex
	days     []models.Day
	store    *itemstate.Store
	memories MemoriesIntegration
	diary    template.HTML

	active string
	panels map[string]*Panel
	builds map[string]int
}

func NewController(days []models.Day, store *itemstate.Store, mem MemoriesIntegration, diaryHTML string) *Controller {
	return &Controller{
		days:     days,
		store:    store,
		memories: mem,
		diary:    template.HTML(diaryHTML),
		panels:   make(map[string]*Panel),
		builds:   make(map[string]int),
	}
}

// ViewIDs is the tab order: days in itinerary order, then diary, then
// memories.
func (c *Controller) ViewIDs() []string {
	ids := make([]string, 0, len(c.days)+2)
	for _, d := range c.days {
		ids = append(ids, strconv.Itoa(d.ID))
	}
	return append(ids, ViewDiary, ViewMemories)
}

func (c *Controller) knownView(viewID string) bool {
	if viewID == ViewDiary || viewID == ViewMemories {
		return true
	}
	_, ok := c.dayFor(viewID)
	return ok
}

func (c *Controller) dayFor(viewID string) (models.Day, bool) {
	id, err := strconv.Atoi(viewID)
	if err != nil {
		return models.Day{}, false
	}
	for _, d := range c.days {
		if d.ID == id {
			return d, true
		}
	}
	return models.Day{}, false
}

// Resolve picks the startup view: explicit dia parameter, else the stored
// last visited day, else the first day, else the diary.
func (c *Controller) Resolve(diaParam string) string {
	if diaParam != "" && c.knownView(diaParam) {
		if _, ok := c.dayFor(diaParam); ok {
			return diaParam
		}
	}
	if last := c.store.LastDay(); last != "" {
		if _, ok := c.dayFor(last); ok {
			return last
		}
	}
	if len(c.days) > 0 {
		return strconv.Itoa(c.days[0].ID)
	}
	return ViewDiary
}

// Activate makes viewID the active view, materializing its panel on first
// use. Only day ids are remembered as the last visited view.
func (c *Controller) Activate(viewID string) (*Panel, error) {
	if !c.knownView(viewID) {
		return nil, fmt.Errorf("unknown view %q", viewID)
	}

	c.mu.Lock()
	panel, ok := c.panels[viewID]
	if !ok {
		panel = c.buildPanel(viewID)
		c.panels[viewID] = panel
		c.builds[viewID]++
	}
	c.active = viewID
	c.mu.Unlock()

	if _, isDay := c.dayFor(viewID); isDay {
		if err := c.store.SetLastDay(viewID); err != nil {
			return panel, err
		}
	}
	return panel, nil
}

// buildPanel runs once per view id. Caller holds the lock.
func (c *Controller) buildPanel(viewID string) *Panel {
	if day, ok := c.dayFor(viewID); ok {
		return &Panel{ID: viewID, Day: day}
	}
	return &Panel{ID: viewID}
}

// BuildCount reports how often a panel's build logic ran.
func (c *Controller) BuildCount(viewID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds[viewID]
}

func (c *Controller) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// URL reflects a view into the page address: day ids become the dia query
// parameter, diary and memories clear it.
func (c *Controller) URL(viewID string) string {
	if _, ok := c.dayFor(viewID); ok {
		return "/?dia=" + viewID
	}
	return "/"
}

// --- keyboard navigation transitions ---

func (c *Controller) shift(delta int) (string, error) {
	ids := c.ViewIDs()
	if len(ids) == 0 {
		return "", fmt.Errorf("no views registered")
	}
	pos := 0
	for i, id := range ids {
		if id == c.Active() {
			pos = i
			break
		}
	}
	pos = (pos + delta + len(ids)) % len(ids)
	next := ids[pos]
	_, err := c.Activate(next)
	return next, err
}

// Next and Prev wrap at the ends; First and Last jump. Each transition both
// moves the selection and activates the newly selected view.
func (c *Controller) Next() (string, error)  { return c.shift(+1) }
func (c *Controller) Prev() (string, error)  { return c.shift(-1) }
func (c *Controller) First() (string, error) { return c.activateAt(0) }
func (c *Controller) Last() (string, error)  { return c.activateAt(len(c.ViewIDs()) - 1) }

func (c *Controller) activateAt(pos int) (string, error) {
	ids := c.ViewIDs()
	if pos < 0 || pos >= len(ids) {
		return "", fmt.Errorf("no views registered")
	}
	_, err := c.Activate(ids[pos])
	return ids[pos], err
}

// --- tab strip ---

// Tab is one tab control. Exactly one tab carries TabIndex 0 at a time;
// the rest are focusable only programmatically.
type Tab struct {
	ID       string
	Label    string
	URL      string
	Selected bool
	TabIndex int
}

func (c *Controller) TabStrip() []Tab {
	active := c.Active()
	tabs := make([]Tab, 0, len(c.days)+2)
	for _, id := range c.ViewIDs() {
		t := Tab{ID: id, Label: c.Label(id), URL: c.URL(id), TabIndex: -1}
		if id == active {
			t.Selected = true
			t.TabIndex = 0
		}
		tabs = append(tabs, t)
	}
	return tabs
}

// Label builds the tab caption. Day tabs carry a progress badge: (done/total)
// while incomplete, a check mark when everything is done, nothing when the
// day has no schedule items.
func (c *Controller) Label(viewID string) string {
	switch viewID {
	case ViewDiary:
		return "Diário"
	case ViewMemories:
		return "Memórias"
	}
	day, ok := c.dayFor(viewID)
	if !ok {
		return viewID
	}
	base := "Dia " + strconv.Itoa(day.ID)
	total := len(day.Schedule)
	if total == 0 {
		return base
	}
	done := c.store.CompletedCount(day.ID, total)
	if done == total {
		return base + " ✓"
	}
	return fmt.Sprintf("%s (%d/%d)", base, done, total)
}

// --- per-item actions ---

// ToggleItem flips the completion flag of one schedule item and returns the
// new state. Only the owning day's label needs recomputing afterwards.
func (c *Controller) ToggleItem(dayID, index int) (models.ItemState, error) {
	if err := c.checkItem(dayID, index); err != nil {
		return models.ItemState{}, err
	}
	st := c.store.Get(dayID, index)
	st.Completed = !st.Completed
	return st, c.store.Set(dayID, index, st)
}

// SetNote stores a free-text note for one schedule item. An empty note
// removes it.
func (c *Controller) SetNote(dayID, index int, note string) (models.ItemState, error) {
	if err := c.checkItem(dayID, index); err != nil {
		return models.ItemState{}, err
	}
	st := c.store.Get(dayID, index)
	st.Note = note
	return st, c.store.Set(dayID, index, st)
}

func (c *Controller) checkItem(dayID, index int) error {
	day, ok := c.dayFor(strconv.Itoa(dayID))
	if !ok {
		return fmt.Errorf("unknown day %d", dayID)
	}
	if index < 0 || index >= len(day.Schedule) {
		return fmt.Errorf("day %d has no item %d", dayID, index)
	}
	return nil
}

// Adjacent returns the numerically previous/next day ids when they exist.
func (c *Controller) Adjacent(dayID int) (prev, next string) {
	if _, ok := c.dayFor(strconv.Itoa(dayID - 1)); ok {
		prev = strconv.Itoa(dayID - 1)
	}
	if _, ok := c.dayFor(strconv.Itoa(dayID + 1)); ok {
		next = strconv.Itoa(dayID + 1)
	}
	return prev, next
}
