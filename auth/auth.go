package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"roteiro/globals"
	"roteiro/middleware"
	"roteiro/rdx"
	"roteiro/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

const sessionTTL = 12 * time.Hour

// wantsJSON distinguishes fetch calls from native form submissions.
func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

// SessionListener is told when a session starts or ends, so dependent
// views can rebuild or clear themselves.
type SessionListener interface {
	LoggedIn(ctx context.Context)
	LoggedOut(ctx context.Context)
}

// Handlers owns the credential list and issues session cookies.
type Handlers struct {
	creds    *Credentials
	listener SessionListener
}

func NewHandlers(creds *Credentials, listener SessionListener) *Handlers {
	return &Handlers{creds: creds, listener: listener}
}

// POST /api/auth/login — accepts JSON or a plain form post.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "JSON inválido")
			return
		}
	} else {
		input.Username = r.FormValue("username")
		input.Password = r.FormValue("password")
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Utilizador e senha são obrigatórios")
		return
	}

	if !h.creds.Verify(input.Username, input.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	claims := &middleware.Claims{
		Username: input.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        utils.GenerateRandomString(16),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(globals.JwtSecret)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Erro ao criar sessão")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    tokenString,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if err := rdx.SetWithExpiry("sessao:"+input.Username, time.Now().Format(time.RFC3339), sessionTTL); err != nil {
		log.Printf("session bookkeeping for %s: %v", input.Username, err)
	}
	if h.listener != nil {
		h.listener.LoggedIn(r.Context())
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Login efetuado")
}

// POST /api/auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.SetCookie(w, &http.Cookie{
		Name:     globals.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if claims, err := middleware.SessionClaims(r); err == nil {
		rdx.RdxDel("sessao:" + claims.Username)
	}
	if h.listener != nil {
		h.listener.LoggedOut(r.Context())
	}
	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Sessão terminada")
}

// GET /api/auth/me — user is null without a valid session.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if name := middleware.SessionUser(r); name != "" && h.creds.Has(name) {
		resp := utils.M{"user": name}
		if since, err := rdx.RdxGet("sessao:" + name); err == nil {
			resp["since"] = since
		}
		utils.RespondWithJSON(w, http.StatusOK, resp)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"user": nil})
}
