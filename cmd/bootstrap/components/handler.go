package components

import (
	"clubops/internal/handler"
	"clubops/internal/handler/api"
	"clubops/internal/handler/middleware"
	"clubops/internal/realtime"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		realtime.NewHub,
		api.NewLaneHandler,
		api.NewPaymentHandler,
		api.NewWaitlistHandler,
		api.NewCheckoutHandler,
		api.NewStreamHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
