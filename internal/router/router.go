package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/nestdo/backend/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	List   *apiHandler.ListHandler
	Item   *apiHandler.ItemHandler
	Health *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/auth/me", authMiddleware(handlers.Auth.Me))

	// Lists
	r.POST("/api/v1/lists", authMiddleware(handlers.List.Create))
	r.GET("/api/v1/lists", authMiddleware(handlers.List.GetAll))
	r.GET("/api/v1/lists/{id}", authMiddleware(handlers.List.Get))
	r.PUT("/api/v1/lists/{id}", authMiddleware(handlers.List.Update))
	r.DELETE("/api/v1/lists/{id}", authMiddleware(handlers.List.Delete))
	r.PATCH("/api/v1/lists/{id}/complete-all", authMiddleware(handlers.List.CompleteAll))

	// Items
	r.POST("/api/v1/items", authMiddleware(handlers.Item.Create))
	r.GET("/api/v1/items/{id}", authMiddleware(handlers.Item.Get))
	r.PUT("/api/v1/items/{id}", authMiddleware(handlers.Item.Update))
	r.DELETE("/api/v1/items/{id}", authMiddleware(handlers.Item.Delete))
	r.PATCH("/api/v1/items/{id}/complete", authMiddleware(handlers.Item.ToggleComplete))
	r.PATCH("/api/v1/items/{id}/collapse", authMiddleware(handlers.Item.ToggleCollapsed))
	r.PATCH("/api/v1/items/{id}/move", authMiddleware(handlers.Item.MoveToList))
	r.PATCH("/api/v1/items/{id}/move-to-parent", authMiddleware(handlers.Item.MoveToParent))

	return r
}
