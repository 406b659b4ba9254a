package memories

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roteiro/db"
	"roteiro/filemgr"
	"roteiro/live"
	"roteiro/middleware"
	"roteiro/models"
	"roteiro/rdx"
	"roteiro/utils"
)

type Handlers struct {
	view *View
	hub  *live.Hub
}

func NewHandlers(view *View, hub *live.Hub) *Handlers {
	return &Handlers{view: view, hub: hub}
}

// List returns the memories matching the request's filters, sorted by
// date ascending. Filtering happens server-side over the full set.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := db.MemoriesCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao carregar memórias")
		return
	}
	defer cursor.Close(ctx)

	var mems []models.Memory
	if err := cursor.All(ctx, &mems); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao carregar memórias")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ParseListQuery(r).Filter(mems))
}

// Get returns one memory by id.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var mem models.Memory
	err := db.MemoriesCollection.FindOne(ctx, bson.M{"memoryid": ps.ByName("id")}).Decode(&mem)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Memória não encontrada")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao carregar memória")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, mem)
}

// Create publishes a new memory from a multipart form. Title is the only
// required field; media files are validated and stored before the insert
// so a bad upload never leaves a half-written document.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	h.trackReceipt(r)
	if err := r.ParseMultipartForm(filemgr.MaxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Formulário inválido")
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Título é obrigatório")
		return
	}

	status := strings.TrimSpace(r.FormValue("status"))
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		utils.RespondWithError(w, http.StatusBadRequest, "Estado inválido")
		return
	}

	date := strings.TrimSpace(r.FormValue("date"))
	if date == "" {
		date = time.Now().Format(time.RFC3339)
	}

	now := time.Now()
	mem := models.Memory{
		ID:        utils.GetUUID(),
		User:      middleware.SessionUser(r),
		Title:     title,
		Text:      strings.TrimSpace(r.FormValue("text")),
		Location:  strings.TrimSpace(r.FormValue("location")),
		Date:      date,
		Tags:      utils.SplitTags(r.FormValue("tags")),
		Status:    status,
		Day:       strings.TrimSpace(r.FormValue("day")),
		CreatedAt: now,
		UpdatedAt: now,
	}

	media, err := h.saveUploads(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	mem.Media = media

	if _, err := db.MemoriesCollection.InsertOne(ctx, mem); err != nil {
		h.discardMedia(media)
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao gravar memória")
		return
	}

	h.refreshAfterChange(ctx, mem.Day)
	utils.RespondWithJSON(w, http.StatusCreated, mem)
}

// Update applies a partial edit. Only the owner may edit; new media is
// appended to whatever the memory already carries.
func (h *Handlers) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	mem, code, msg := h.ownedMemory(ctx, r, ps.ByName("id"))
	if msg != "" {
		utils.RespondWithError(w, code, msg)
		return
	}

	h.trackReceipt(r)
	if err := r.ParseMultipartForm(filemgr.MaxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Formulário inválido")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	for _, field := range []string{"title", "text", "location", "date", "status", "day"} {
		if vals, ok := r.MultipartForm.Value[field]; ok && len(vals) > 0 {
			update[field] = strings.TrimSpace(vals[0])
		}
	}
	if t, ok := update["title"]; ok && t == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Título é obrigatório")
		return
	}
	if s, ok := update["status"]; ok && !models.ValidStatus(s.(string)) {
		utils.RespondWithError(w, http.StatusBadRequest, "Estado inválido")
		return
	}
	if vals, ok := r.MultipartForm.Value["tags"]; ok && len(vals) > 0 {
		update["tags"] = utils.SplitTags(vals[0])
	}

	media, err := h.saveUploads(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(media) > 0 {
		update["media"] = append(mem.Media, media...)
	}

	oldDay := mem.Day
	err = db.MemoriesCollection.FindOneAndUpdate(ctx,
		bson.M{"memoryid": mem.ID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mem)
	if err != nil {
		h.discardMedia(media)
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao atualizar memória")
		return
	}

	h.refreshAfterChange(ctx, oldDay)
	if mem.Day != oldDay {
		h.refreshAfterChange(ctx, mem.Day)
	}
	utils.RespondWithJSON(w, http.StatusOK, mem)
}

// Delete removes a memory with everything attached to it: comments,
// reaction counters and stored media.
func (h *Handlers) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	mem, code, msg := h.ownedMemory(ctx, r, ps.ByName("id"))
	if msg != "" {
		utils.RespondWithError(w, code, msg)
		return
	}

	cursor, err := db.CommentsCollection.Find(ctx, bson.M{"memoryid": mem.ID})
	if err == nil {
		var comments []models.Comment
		if cursor.All(ctx, &comments) == nil {
			for _, c := range comments {
				rdx.DropReactions(ctx, "comment", c.ID)
			}
		}
	}
	db.CommentsCollection.DeleteMany(ctx, bson.M{"memoryid": mem.ID})
	rdx.DropReactions(ctx, "memory", mem.ID)
	h.discardMedia(mem.Media)

	if _, err := db.MemoriesCollection.DeleteOne(ctx, bson.M{"memoryid": mem.ID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao remover memória")
		return
	}

	h.refreshAfterChange(ctx, mem.Day)
	utils.RespondWithMessage(w, http.StatusOK, "Memória removida")
}

// ownedMemory loads a memory and checks the session user owns it. A
// non-empty message means the request should stop with that status.
func (h *Handlers) ownedMemory(ctx context.Context, r *http.Request, id string) (models.Memory, int, string) {
	var mem models.Memory
	err := db.MemoriesCollection.FindOne(ctx, bson.M{"memoryid": id}).Decode(&mem)
	if err == mongo.ErrNoDocuments {
		return mem, http.StatusNotFound, "Memória não encontrada"
	}
	if err != nil {
		return mem, http.StatusInternalServerError, "Erro ao carregar memória"
	}
	if mem.User != middleware.SessionUser(r) {
		return mem, http.StatusForbidden, "Apenas o autor pode alterar esta memória"
	}
	return mem, 0, ""
}

// saveUploads stores every file in the "media" field. Receipt progress
// comes from the wrapped request body; a final full-bar event fires once
// everything is safely on disk.
func (h *Handlers) saveUploads(r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File["media"]
	if len(headers) == 0 {
		return nil, nil
	}

	var urls []string
	for _, fh := range headers {
		url, err := h.saveOne(fh)
		if err != nil {
			h.discardMedia(urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	if h.hub != nil {
		h.hub.Broadcast(live.Event{Action: "upload-progress", Fraction: 1})
	}
	return urls, nil
}

func (h *Handlers) saveOne(fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return filemgr.SaveMemoryFile(file, fh)
}

func (h *Handlers) discardMedia(urls []string) {
	for _, u := range urls {
		filemgr.Remove(u)
	}
}

func (h *Handlers) refreshAfterChange(ctx context.Context, day string) {
	if h.view == nil {
		return
	}
	if day == "" {
		h.view.RefreshCover(ctx)
		return
	}
	h.view.RefreshDay(ctx, day)
}
