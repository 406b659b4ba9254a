package middleware

import (
	"context"
	"fmt"
	"net/http"

	"roteiro/globals"
	"roteiro/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

// JWT claims carried inside the session cookie.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionInvalidated is called when a request presents a session cookie
// that no longer validates, typically an expired token. The server wires
// it to drop session-scoped rendering so stale caches do not outlive the
// session.
var SessionInvalidated func()

// Authenticate requires a valid session cookie. The uniform failure answer
// is 401 with a JSON error body; the client reacts by returning to the
// logged-out view.
func Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		claims, err := SessionClaims(r)
		if err != nil {
			if hasSessionCookie(r) && SessionInvalidated != nil {
				SessionInvalidated()
			}
			utils.RespondWithError(w, http.StatusUnauthorized, "Sessão inválida")
			return
		}

		ctx := context.WithValue(r.Context(), globals.UsernameKey, claims.Username)
		next(w, r.WithContext(ctx), ps)
	}
}

// OptionalAuth injects the username when a valid session cookie is present
// and proceeds regardless.
func OptionalAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if claims, err := SessionClaims(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), globals.UsernameKey, claims.Username))
		}
		next(w, r, ps)
	}
}

func hasSessionCookie(r *http.Request) bool {
	cookie, err := r.Cookie(globals.SessionCookie)
	return err == nil && cookie.Value != ""
}

// SessionClaims reads and validates the session cookie.
func SessionClaims(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(globals.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, fmt.Errorf("missing session")
	}
	return ValidateToken(cookie.Value)
}

func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("unauthorized: %w", err)
	}
	return claims, nil
}

// SessionUser returns the username injected by Authenticate/OptionalAuth,
// or "" when the request has no session.
func SessionUser(r *http.Request) string {
	name, _ := r.Context().Value(globals.UsernameKey).(string)
	return name
}
