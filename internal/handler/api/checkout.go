package api

import (
	"context"
	"errors"
	"net/http"

	"clubops/internal/domain/checkout"
	reqdto "clubops/internal/handler/dto/request"
	resdto "clubops/internal/handler/dto/response"
	"clubops/internal/handler/httperr"
	"clubops/internal/handler/middleware"
	"clubops/internal/usecase/commands"
	"clubops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	checkouts commands.CheckoutCommands
	queries   queries.CheckoutQueries
}

func NewCheckoutHandler(checkouts commands.CheckoutCommands, checkoutQueries queries.CheckoutQueries) *CheckoutHandler {
	return &CheckoutHandler{
		checkouts: checkouts,
		queries:   checkoutQueries,
	}
}

// @Summary List open checkout requests
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} queries.CheckoutRequestView
// @Router /checkouts [get]
func (h *CheckoutHandler) List(c *gin.Context) {
	views, err := h.queries.ListOpen(c.Request.Context())
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Request checkout
// @Description Kiosk-initiated checkout; the late fee is fixed at request time
// @Tags checkouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Checkout"
// @Success 201 {object} resdto.CheckoutRequestResponse
// @Failure 400 {object} httperr.Response
// @Router /checkouts [post]
func (h *CheckoutHandler) Request(c *gin.Context) {
	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.checkouts.Request(c.Request.Context(), commands.RequestCheckoutParams{
		VisitID:     req.VisitID,
		RoomNumber:  req.RoomNumber,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromCheckoutRequest(result))
}

// @Summary Claim checkout request
// @Description Exactly one staff member wins the claim; everyone else gets a conflict
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checkout request ID"
// @Success 200 {object} resdto.CheckoutRequestResponse
// @Failure 409 {object} httperr.Response
// @Router /checkouts/{id}/claim [post]
func (h *CheckoutHandler) Claim(c *gin.Context) {
	h.mutate(c, h.checkouts.Claim)
}

// @Summary Confirm returned items
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checkout request ID"
// @Success 200 {object} resdto.CheckoutRequestResponse
// @Failure 409 {object} httperr.Response
// @Router /checkouts/{id}/confirm-items [post]
func (h *CheckoutHandler) ConfirmItems(c *gin.Context) {
	h.mutate(c, h.checkouts.ConfirmItems)
}

// @Summary Mark late fee paid
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checkout request ID"
// @Success 200 {object} resdto.CheckoutRequestResponse
// @Failure 409 {object} httperr.Response
// @Router /checkouts/{id}/mark-fee-paid [post]
func (h *CheckoutHandler) MarkFeePaid(c *gin.Context) {
	h.mutate(c, h.checkouts.MarkFeePaid)
}

// @Summary Complete checkout
// @Tags checkouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Checkout request ID"
// @Success 200 {object} resdto.CheckoutRequestResponse
// @Failure 422 {object} httperr.Response
// @Router /checkouts/{id}/complete [post]
func (h *CheckoutHandler) Complete(c *gin.Context) {
	h.mutate(c, h.checkouts.Complete)
}

func (h *CheckoutHandler) mutate(c *gin.Context, fn func(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error)) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid checkout request ID format", nil)
		return
	}

	staffID, ok := middleware.GetOperatorID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errors.New("missing operator context"), "Internal server error", nil)
		return
	}

	result, err := fn(c.Request.Context(), requestID, staffID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCheckoutRequest(result))
}
