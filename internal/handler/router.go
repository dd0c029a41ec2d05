package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"clubops/internal/domain/session"
	"clubops/internal/handler/api"
	"clubops/internal/handler/middleware"
	"clubops/internal/pkg/config"
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
	laneHandler *api.LaneHandler,
	paymentHandler *api.PaymentHandler,
	waitlistHandler *api.WaitlistHandler,
	checkoutHandler *api.CheckoutHandler,
	streamHandler *api.StreamHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, laneHandler, paymentHandler, waitlistHandler, checkoutHandler, streamHandler, authMiddleware)
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
	laneHandler *api.LaneHandler,
	paymentHandler *api.PaymentHandler,
	waitlistHandler *api.WaitlistHandler,
	checkoutHandler *api.CheckoutHandler,
	streamHandler *api.StreamHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staffOnly := authMiddleware.RequireRole(session.RoleEmployee, session.RoleAdmin)
	adminOnly := authMiddleware.RequireRole(session.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		lanes := apiGroup.Group("/lanes/:laneId")
		{
			addRoutes(lanes, []route{
				{Method: http.MethodGet, Path: "/events", Handler: streamHandler.Stream},
				{Method: http.MethodGet, Path: "/session", Handler: laneHandler.GetSession},
				{Method: http.MethodPost, Path: "/session", Handler: laneHandler.StartSession, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/session", Handler: laneHandler.Reset, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/session/propose-selection", Handler: laneHandler.ProposeSelection},
				{Method: http.MethodPost, Path: "/session/confirm-selection", Handler: laneHandler.ConfirmSelection},
				{Method: http.MethodPost, Path: "/session/acknowledge-selection", Handler: laneHandler.AcknowledgeSelection, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/session/assign", Handler: laneHandler.Assign, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/session/assign/customer-response", Handler: laneHandler.CustomerResponse},
				{Method: http.MethodPost, Path: "/session/signature", Handler: laneHandler.Sign},
				{Method: http.MethodPost, Path: "/session/signature/override", Handler: paymentHandler.OverrideSignature, Mw: []gin.HandlerFunc{adminOnly}},
				{Method: http.MethodPost, Path: "/session/payment-intent", Handler: paymentHandler.CreateIntent},
				{Method: http.MethodPost, Path: "/session/payment-intent/dismiss-failure", Handler: paymentHandler.DismissFailure},
				{Method: http.MethodPost, Path: "/session/payment-intent/:id/mark-paid", Handler: paymentHandler.MarkPaid},
				{Method: http.MethodPost, Path: "/session/payment-intent/:id/decline", Handler: paymentHandler.Decline},
				{Method: http.MethodPost, Path: "/session/past-due/demo-payment", Handler: paymentHandler.PastDueDemoPayment},
				{Method: http.MethodPost, Path: "/session/past-due/bypass", Handler: paymentHandler.PastDueBypass},
			})
		}

		waitlist := apiGroup.Group("/waitlist")
		{
			addRoutes(waitlist, []route{
				{Method: http.MethodGet, Path: "", Handler: waitlistHandler.List},
				{Method: http.MethodPost, Path: "", Handler: waitlistHandler.Join},
				{Method: http.MethodPost, Path: "/:id/offer", Handler: waitlistHandler.Offer, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodDelete, Path: "/:id/offer", Handler: waitlistHandler.CancelOffer, Mw: []gin.HandlerFunc{staffOnly}},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/upgrades/complete", Handler: waitlistHandler.CompleteUpgrade, Mw: []gin.HandlerFunc{staffOnly}},
			{Method: http.MethodGet, Path: "/inventory", Handler: waitlistHandler.Inventory},
			{Method: http.MethodGet, Path: "/rooms/offerable", Handler: waitlistHandler.OfferableRooms, Mw: []gin.HandlerFunc{staffOnly}},
		})

		checkouts := apiGroup.Group("/checkouts")
		{
			addRoutes(checkouts, []route{
				{Method: http.MethodGet, Path: "", Handler: checkoutHandler.List, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "", Handler: checkoutHandler.Request},
				{Method: http.MethodPost, Path: "/:id/claim", Handler: checkoutHandler.Claim, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/confirm-items", Handler: checkoutHandler.ConfirmItems, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/mark-fee-paid", Handler: checkoutHandler.MarkFeePaid, Mw: []gin.HandlerFunc{staffOnly}},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: checkoutHandler.Complete, Mw: []gin.HandlerFunc{staffOnly}},
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
