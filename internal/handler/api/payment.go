package api

import (
	"net/http"

	reqdto "clubops/internal/handler/dto/request"
	resdto "clubops/internal/handler/dto/response"
	"clubops/internal/handler/httperr"
	"clubops/internal/usecase/commands"
	"clubops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	payments commands.PaymentCommands
	queries  queries.SessionQueries
}

func NewPaymentHandler(payments commands.PaymentCommands, sessionQueries queries.SessionQueries) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		queries:  sessionQueries,
	}
}

// @Summary Create payment intent
// @Description Arm the payment gate for the lane's session; idempotent, returns the existing intent on repeat
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 200 {object} resdto.PaymentIntentResponse
// @Success 201 {object} resdto.PaymentIntentResponse
// @Failure 404 {object} httperr.Response
// @Router /lanes/{laneId}/session/payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	view, err := h.queries.GetActiveByLane(c.Request.Context(), c.Param("laneId"))
	if err != nil {
		abortDomainError(c, err)
		return
	}

	intent, created, err := h.payments.EnsureIntent(c.Request.Context(), view.SessionID)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, resdto.FromPaymentIntent(intent))
}

// @Summary Mark payment intent paid
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param id path string true "Payment intent ID"
// @Success 200 {object} queries.SessionView
// @Failure 404 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/payment-intent/{id}/mark-paid [post]
func (h *PaymentHandler) MarkPaid(c *gin.Context) {
	intentID, ok := h.intentID(c)
	if !ok {
		return
	}

	laneID := c.Param("laneId")
	if err := h.payments.MarkPaid(c.Request.Context(), laneID, intentID); err != nil {
		abortDomainError(c, err)
		return
	}
	h.respondSession(c, laneID)
}

// @Summary Record declined payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param id path string true "Payment intent ID"
// @Param request body reqdto.DeclinePaymentRequest true "Decline reason"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/payment-intent/{id}/decline [post]
func (h *PaymentHandler) Decline(c *gin.Context) {
	intentID, ok := h.intentID(c)
	if !ok {
		return
	}

	var req reqdto.DeclinePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	laneID := c.Param("laneId")
	if err := h.payments.Decline(c.Request.Context(), laneID, intentID, req.Reason); err != nil {
		abortDomainError(c, err)
		return
	}
	h.respondSession(c, laneID)
}

// @Summary Dismiss payment failure banner
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 200 {object} queries.SessionView
// @Failure 404 {object} httperr.Response
// @Router /lanes/{laneId}/session/payment-intent/dismiss-failure [post]
func (h *PaymentHandler) DismissFailure(c *gin.Context) {
	laneID := c.Param("laneId")
	if err := h.payments.DismissFailure(c.Request.Context(), laneID); err != nil {
		abortDomainError(c, err)
		return
	}
	h.respondSession(c, laneID)
}

// @Summary Past-due demo payment
// @Description Record the outcome of the past-due settlement attempt at the lane
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.PastDueDemoPaymentRequest true "Outcome"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/past-due/demo-payment [post]
func (h *PaymentHandler) PastDueDemoPayment(c *gin.Context) {
	var req reqdto.PastDueDemoPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	laneID := c.Param("laneId")
	outcome := commands.PastDueOutcome(req.Outcome)
	if err := h.payments.PastDuePayment(c.Request.Context(), laneID, outcome, req.DeclineReason); err != nil {
		abortDomainError(c, err)
		return
	}
	h.respondSession(c, laneID)
}

// @Summary Past-due manager bypass
// @Description Lift the past-due block with an admin PIN
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.PastDueBypassRequest true "Manager credentials"
// @Success 200 {object} queries.SessionView
// @Failure 403 {object} httperr.Response
// @Router /lanes/{laneId}/session/past-due/bypass [post]
func (h *PaymentHandler) PastDueBypass(c *gin.Context) {
	var req reqdto.PastDueBypassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	laneID := c.Param("laneId")
	if err := h.payments.PastDueBypass(c.Request.Context(), laneID, req.ManagerID, req.Pin); err != nil {
		abortDomainError(c, err)
		return
	}
	h.respondSession(c, laneID)
}

// @Summary Override missing signature
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/signature/override [post]
func (h *PaymentHandler) OverrideSignature(c *gin.Context) {
	laneID := c.Param("laneId")
	if err := h.payments.OverrideSignature(c.Request.Context(), laneID); err != nil {
		abortDomainError(c, err)
		return
	}
	h.respondSession(c, laneID)
}

func (h *PaymentHandler) intentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment intent ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *PaymentHandler) respondSession(c *gin.Context, laneID string) {
	view, err := h.queries.GetActiveByLane(c.Request.Context(), laneID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
