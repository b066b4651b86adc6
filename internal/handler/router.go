package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"marketplace-core/internal/domain/user"
	"marketplace-core/internal/handler/api"
	"marketplace-core/internal/handler/middleware"
	"marketplace-core/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	itemHandler *api.ItemHandler,
	cartHandler *api.CartHandler,
	orderHandler *api.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, itemHandler, cartHandler, orderHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	itemHandler *api.ItemHandler,
	cartHandler *api.CartHandler,
	orderHandler *api.OrderHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			addRoutes(auth, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := auth.Group("")
			authRequired.Use(authMiddleware.RequireAuth())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
			})
		}

		items := apiGroup.Group("/items")
		{
			addRoutes(items, []route{
				{Method: http.MethodGet, Path: "", Handler: itemHandler.List},
			})

			sellerOnly := items.Group("")
			sellerOnly.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleSeller, user.RoleAdmin))
			addRoutes(sellerOnly, []route{
				{Method: http.MethodPost, Path: "", Handler: itemHandler.Create},
				{Method: http.MethodGet, Path: "/mine", Handler: itemHandler.ListMine},
				{Method: http.MethodPatch, Path: "/:id", Handler: itemHandler.Update},
			})

			// Registered after /mine so the wildcard does not shadow it.
			addRoutes(items, []route{
				{Method: http.MethodGet, Path: "/:id", Handler: itemHandler.Get},
			})
		}

		cart := apiGroup.Group("/cart")
		cart.Use(authMiddleware.RequireAuth(), authMiddleware.RequireRole(user.RoleBuyer, user.RoleAdmin))
		{
			addRoutes(cart, []route{
				{Method: http.MethodGet, Path: "", Handler: cartHandler.List},
				{Method: http.MethodPut, Path: "/lines", Handler: cartHandler.AddLine},
				{Method: http.MethodPatch, Path: "/lines/:itemId/selected", Handler: cartHandler.SelectLine},
				{Method: http.MethodDelete, Path: "/lines/:itemId", Handler: cartHandler.RemoveLine},
			})
		}

		orders := apiGroup.Group("/orders")
		orders.Use(authMiddleware.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "/checkout", Handler: orderHandler.Checkout,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleBuyer)}},
				{Method: http.MethodGet, Path: "", Handler: orderHandler.ListPurchases,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleBuyer, user.RoleAdmin)}},
				{Method: http.MethodGet, Path: "/incoming", Handler: orderHandler.ListIncoming,
					Mw: []gin.HandlerFunc{authMiddleware.RequireRole(user.RoleSeller, user.RoleAdmin)}},
				{Method: http.MethodGet, Path: "/:id", Handler: orderHandler.GetOrder},
				{Method: http.MethodPatch, Path: "/:id/status", Handler: orderHandler.ChangeStatus},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
