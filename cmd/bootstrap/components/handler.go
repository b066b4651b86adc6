package components

import (
	"marketplace-core/internal/handler"
	"marketplace-core/internal/handler/api"
	"marketplace-core/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewItemHandler,
		api.NewCartHandler,
		api.NewOrderHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
