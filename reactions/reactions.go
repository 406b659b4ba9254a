package reactions

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"roteiro/db"
	"roteiro/rdx"
	"roteiro/utils"
)

// Any non-empty emoji is a valid counter key; the same codepoint
// sequence always lands on the same key, so "❤" and "❤️" count apart.
const maxEmojiLen = 32

func Valid(emoji string) bool {
	return emoji != "" && len(emoji) <= maxEmojiLen
}

// Bump is the pure counter update behind the handlers: one increment,
// never a decrement, missing map treated as empty.
func Bump(counts map[string]int, emoji string) map[string]int {
	if counts == nil {
		counts = make(map[string]int)
	}
	counts[emoji]++
	return counts
}

// ReactToMemory adds one reaction to a memory.
func ReactToMemory(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	react(w, r, ps.ByName("id"), "memory", db.MemoriesCollection, "memoryid")
}

// ReactToComment adds one reaction to a comment.
func ReactToComment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	react(w, r, ps.ByName("id"), "comment", db.CommentsCollection, "commentid")
}

func react(w http.ResponseWriter, r *http.Request, id, entityType string, col *mongo.Collection, keyField string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var body struct {
		Emoji string `json:"emoji"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	emoji := strings.TrimSpace(body.Emoji)
	if !Valid(emoji) {
		utils.RespondWithError(w, http.StatusBadRequest, "Reação inválida")
		return
	}

	if err := col.FindOne(ctx, bson.M{keyField: id}).Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Não encontrado")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao carregar")
		return
	}

	counts, err := rdx.IncrReaction(ctx, entityType, id, emoji)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao gravar reação")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reactions": counts})
}
