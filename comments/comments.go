package comments

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"roteiro/db"
	"roteiro/middleware"
	"roteiro/models"
	"roteiro/rdx"
	"roteiro/utils"
)

// Comments are append-only: they only disappear when the memory they
// belong to is deleted, which removes them in cascade.

// Create adds a comment to a memory.
func Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	memoryID := ps.ByName("id")
	if err := db.MemoriesCollection.FindOne(ctx, bson.M{"memoryid": memoryID}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Memória não encontrada")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao carregar memória")
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Comentário não pode ser vazio")
		return
	}

	comment := models.Comment{
		ID:        utils.GetUUID(),
		MemoryID:  memoryID,
		User:      middleware.SessionUser(r),
		Text:      strings.TrimSpace(body.Text),
		CreatedAt: time.Now(),
	}
	if _, err := db.CommentsCollection.InsertOne(ctx, comment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao gravar comentário")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, comment)
}

// List returns a memory's comments, oldest first, with live reaction
// counts folded in from Redis.
func List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	comments, err := ByMemory(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao carregar comentários")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, comments)
}

// ByMemory loads every comment of one memory sorted by creation time,
// with reaction counters attached. Used by the list endpoint and by the
// export.
func ByMemory(ctx context.Context, memoryID string) ([]models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := db.CommentsCollection.Find(ctx, bson.M{"memoryid": memoryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	for i := range comments {
		if counts, err := rdx.GetReactions(ctx, "comment", comments[i].ID); err == nil && len(counts) > 0 {
			comments[i].Reactions = counts
		}
	}
	return comments, nil
}
