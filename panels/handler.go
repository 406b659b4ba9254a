package panels

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"roteiro/middleware"
	"roteiro/utils"

	"github.com/julienschmidt/httprouter"
)

// sessionActive reports whether the request carries a valid session
// cookie. The memories placements are only unlocked for those requests.
func sessionActive(r *http.Request) bool {
	_, err := middleware.SessionClaims(r)
	return err == nil
}

// Page serves GET /: resolves the startup view, activates it and renders
// the document.
func (c *Controller) Page(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	viewID := c.Resolve(r.URL.Query().Get("dia"))
	if _, err := c.Activate(viewID); err != nil {
		log.Printf("activate %s: %v", viewID, err)
	}

	page, err := c.RenderPage(sessionActive(r))
	if err != nil {
		http.Error(w, "Erro ao montar a página", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// ActivateView serves GET /api/panel/:view — activates a view and returns
// its panel fragment, label updates and the address to reflect.
func (c *Controller) ActivateView(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	viewID := ps.ByName("view")
	panel, err := c.Activate(viewID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Vista desconhecida")
		return
	}
	body, err := c.RenderPanel(panel, sessionActive(r))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao montar o painel")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"view":  viewID,
		"url":   c.URL(viewID),
		"panel": string(body),
		"tabs":  c.TabStrip(),
	})
}

// Navigate serves POST /api/panel/nav/:action for the keyboard transitions:
// next/prev wrap cyclically, first/last jump. The response carries the newly
// active view so the client can move focus with it.
func (c *Controller) Navigate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var viewID string
	var err error
	switch ps.ByName("action") {
	case "next":
		viewID, err = c.Next()
	case "prev":
		viewID, err = c.Prev()
	case "first":
		viewID, err = c.First()
	case "last":
		viewID, err = c.Last()
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Ação desconhecida")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro de navegação")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"view": viewID,
		"url":  c.URL(viewID),
		"tabs": c.TabStrip(),
	})
}

// UpdateItem serves POST /api/state/:dia/:item with {completed?, note?}.
// Only the touched day's label is recomputed.
func (c *Controller) UpdateItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	dayID, err := strconv.Atoi(ps.ByName("dia"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Dia inválido")
		return
	}
	index, err := strconv.Atoi(ps.ByName("item"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Item inválido")
		return
	}

	var body struct {
		Toggle bool    `json:"toggle,omitempty"`
		Note   *string `json:"note,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	st := c.store.Get(dayID, index)
	if body.Toggle {
		st, err = c.ToggleItem(dayID, index)
	} else if body.Note != nil {
		st, err = c.SetNote(dayID, index, *body.Note)
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Item desconhecido")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"state": st,
		"label": c.Label(ps.ByName("dia")),
	})
}

// SetThemePref serves POST /api/theme {theme} — light or dark.
func (c *Controller) SetThemePref(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || (body.Theme != "light" && body.Theme != "dark") {
		utils.RespondWithError(w, http.StatusBadRequest, "Tema inválido")
		return
	}
	if err := c.store.SetTheme(body.Theme); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao guardar o tema")
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Tema atualizado")
}
