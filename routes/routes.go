package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roteiro/auth"
	"roteiro/comments"
	"roteiro/export"
	"roteiro/live"
	"roteiro/memories"
	"roteiro/middleware"
	"roteiro/panels"
	"roteiro/ratelim"
	"roteiro/reactions"
)

// Deps bundles everything the route table needs. Built once in main and
// threaded through RoutesWrapper.
type Deps struct {
	Auth       *auth.Handlers
	Memories   *memories.Handlers
	Controller *panels.Controller
	Hub        *live.Hub
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, deps Deps) {
	AddStaticRoutes(router)
	AddPageRoutes(router, deps.Controller)
	AddAuthRoutes(router, rl, deps.Auth)
	AddMemoryRoutes(router, rl, deps.Memories)
	AddCommentRoutes(router, rl)
	AddReactionRoutes(router, rl)
	AddExportRoutes(router)
	AddLiveRoutes(router, deps.Hub)
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
	router.ServeFiles("/static/assets/*filepath", http.Dir("static/assets"))
}

func AddPageRoutes(router *httprouter.Router, c *panels.Controller) {
	router.GET("/", c.Page)
	router.GET("/api/panel/:view", c.ActivateView)
	router.POST("/api/panel/nav/:action", c.Navigate)
	router.POST("/api/state/:dia/:item", c.UpdateItem)
	router.POST("/api/theme", c.SetThemePref)
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *auth.Handlers) {
	router.POST("/api/auth/login", rl.Limit(h.Login))
	router.POST("/api/auth/logout", h.Logout)
	router.GET("/api/auth/me", middleware.OptionalAuth(h.Me))
}

func AddMemoryRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *memories.Handlers) {
	router.GET("/api/memories", middleware.Authenticate(h.List))
	router.GET("/api/memories/:id", middleware.Authenticate(h.Get))
	router.POST("/api/memories", rl.Limit(middleware.Authenticate(h.Create)))
	router.PUT("/api/memories/:id", middleware.Authenticate(h.Update))
	router.DELETE("/api/memories/:id", middleware.Authenticate(h.Delete))
}

func AddCommentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/memories/:id/comments", middleware.Authenticate(comments.List))
	router.POST("/api/memories/:id/comments", rl.Limit(middleware.Authenticate(comments.Create)))
}

func AddReactionRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/memories/:id/reactions", rl.Limit(middleware.Authenticate(reactions.ReactToMemory)))
	router.POST("/api/comments/:id/reactions", rl.Limit(middleware.Authenticate(reactions.ReactToComment)))
}

func AddExportRoutes(router *httprouter.Router) {
	router.GET("/api/export", middleware.Authenticate(export.JSON))
	router.GET("/api/export/pdf", middleware.Authenticate(export.PDF))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws", live.WebSocketHandler(hub))
}
