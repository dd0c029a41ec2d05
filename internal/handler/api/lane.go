package api

import (
	"net/http"

	"clubops/internal/domain/session"
	reqdto "clubops/internal/handler/dto/request"
	"clubops/internal/handler/httperr"
	"clubops/internal/usecase/commands"
	"clubops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type LaneHandler struct {
	lanes       commands.LaneCommands
	assignments commands.AssignmentCommands
	queries     queries.SessionQueries
}

func NewLaneHandler(
	lanes commands.LaneCommands,
	assignments commands.AssignmentCommands,
	sessionQueries queries.SessionQueries,
) *LaneHandler {
	return &LaneHandler{
		lanes:       lanes,
		assignments: assignments,
		queries:     sessionQueries,
	}
}

// @Summary Start lane session
// @Description Open a session for a scanned customer on a free lane
// @Tags lanes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.StartSessionRequest true "Customer lookup"
// @Success 201 {object} queries.SessionView
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /lanes/{laneId}/session [post]
func (h *LaneHandler) StartSession(c *gin.Context) {
	var req reqdto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	intent, err := session.NewMembershipIntent(req.MembershipIntent)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid membership intent", nil)
		return
	}

	view, err := h.lanes.StartSession(c.Request.Context(), c.Param("laneId"), commands.StartSessionParams{
		ScanValue:        req.ScanValue,
		MembershipValue:  req.MembershipValue,
		CustomerID:       req.CustomerID,
		MembershipIntent: intent,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary Get lane session
// @Tags lanes
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 200 {object} queries.SessionView
// @Failure 404 {object} httperr.Response
// @Router /lanes/{laneId}/session [get]
func (h *LaneHandler) GetSession(c *gin.Context) {
	view, err := h.queries.GetActiveByLane(c.Request.Context(), c.Param("laneId"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Propose rental selection
// @Description Record a rental-type proposal; a repeated identical employee proposal force-confirms
// @Tags lanes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.ProposeSelectionRequest true "Proposal"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/propose-selection [post]
func (h *LaneHandler) ProposeSelection(c *gin.Context) {
	var req reqdto.ProposeSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	rentalType, err := session.NewRentalType(req.RentalType)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid rental type", nil)
		return
	}
	actor, err := session.NewActor(req.Actor)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid actor", nil)
		return
	}

	view, err := h.lanes.Propose(c.Request.Context(), c.Param("laneId"), rentalType, actor)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Confirm rental selection
// @Tags lanes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.ConfirmSelectionRequest true "Confirming actor"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/confirm-selection [post]
func (h *LaneHandler) ConfirmSelection(c *gin.Context) {
	var req reqdto.ConfirmSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	actor, err := session.NewActor(req.Actor)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid actor", nil)
		return
	}

	view, err := h.lanes.Confirm(c.Request.Context(), c.Param("laneId"), actor)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Acknowledge selection lock
// @Tags lanes
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/acknowledge-selection [post]
func (h *LaneHandler) AcknowledgeSelection(c *gin.Context) {
	view, err := h.lanes.Acknowledge(c.Request.Context(), c.Param("laneId"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Assign resource
// @Description Bind a concrete room or locker; cross-tier picks wait for the customer
// @Tags lanes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.AssignRequest true "Resource"
// @Success 200 {object} queries.SessionView
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/assign [post]
func (h *LaneHandler) Assign(c *gin.Context) {
	var req reqdto.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	resourceType, err := session.NewRentalType(req.ResourceType)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid resource type", nil)
		return
	}

	view, err := h.assignments.Assign(c.Request.Context(), c.Param("laneId"), session.AssignedResource{
		Type:   resourceType,
		Number: req.ResourceNumber,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Customer response to cross-tier assignment
// @Tags lanes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param request body reqdto.CustomerResponseRequest true "Accept or decline"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/assign/customer-response [post]
func (h *LaneHandler) CustomerResponse(c *gin.Context) {
	var req reqdto.CustomerResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	var (
		view *queries.SessionView
		err  error
	)
	if req.Accept {
		view, err = h.assignments.CustomerAccept(c.Request.Context(), c.Param("laneId"))
	} else {
		view, err = h.assignments.CustomerDecline(c.Request.Context(), c.Param("laneId"))
	}
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Record agreement signature
// @Tags lanes
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 200 {object} queries.SessionView
// @Failure 422 {object} httperr.Response
// @Router /lanes/{laneId}/session/signature [post]
func (h *LaneHandler) Sign(c *gin.Context) {
	view, err := h.lanes.Sign(c.Request.Context(), c.Param("laneId"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Reset lane
// @Description Cancel whatever session occupies the lane; clients treat 404 as already clear
// @Tags lanes
// @Produce json
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Success 204
// @Failure 404 {object} httperr.Response
// @Router /lanes/{laneId}/session [delete]
func (h *LaneHandler) Reset(c *gin.Context) {
	if err := h.lanes.Reset(c.Request.Context(), c.Param("laneId")); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
