package api

import (
	"net/http"

	"clubops/internal/domain/session"
	reqdto "clubops/internal/handler/dto/request"
	resdto "clubops/internal/handler/dto/response"
	"clubops/internal/handler/httperr"
	"clubops/internal/usecase/commands"
	"clubops/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type WaitlistHandler struct {
	waitlist  commands.WaitlistCommands
	queries   queries.WaitlistQueries
	inventory queries.InventoryQueries
}

func NewWaitlistHandler(
	waitlist commands.WaitlistCommands,
	waitlistQueries queries.WaitlistQueries,
	inventory queries.InventoryQueries,
) *WaitlistHandler {
	return &WaitlistHandler{
		waitlist:  waitlist,
		queries:   waitlistQueries,
		inventory: inventory,
	}
}

// @Summary List waitlist
// @Description Open entries with upgrade eligibility computed for the requesting lane
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param laneId query string true "Requesting lane ID"
// @Success 200 {array} queries.WaitlistEntryView
// @Router /waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
	views, err := h.queries.List(c.Request.Context(), c.Query("laneId"))
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// @Summary Join waitlist
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.JoinWaitlistRequest true "Entry"
// @Success 201 {object} resdto.WaitlistEntryResponse
// @Failure 400 {object} httperr.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Join(c *gin.Context) {
	var req reqdto.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	desired, err := session.NewRentalType(req.DesiredTier)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid desired tier", nil)
		return
	}
	backup, err := session.NewRentalType(req.BackupTier)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid backup tier", nil)
		return
	}

	entry, err := h.waitlist.Join(c.Request.Context(), commands.JoinWaitlistParams{
		VisitID:      req.VisitID,
		CustomerName: req.CustomerName,
		DesiredTier:  desired,
		BackupTier:   backup,
	})
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromWaitlistEntry(entry))
}

// @Summary Offer room to waitlist entry
// @Description Hold a concrete room for the entry and quote the upgrade
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Param request body reqdto.OfferRoomRequest true "Room"
// @Success 200 {object} resdto.PaymentIntentResponse
// @Failure 409 {object} httperr.Response
// @Router /waitlist/{id}/offer [post]
func (h *WaitlistHandler) Offer(c *gin.Context) {
	waitlistID, ok := h.waitlistID(c)
	if !ok {
		return
	}

	var req reqdto.OfferRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	intent, err := h.waitlist.Offer(c.Request.Context(), req.LaneID, waitlistID, req.RoomID)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentIntent(intent))
}

// @Summary Cancel waitlist offer
// @Description Release the held room; the entry returns to ACTIVE and keeps its place
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Waitlist entry ID"
// @Success 204
// @Failure 422 {object} httperr.Response
// @Router /waitlist/{id}/offer [delete]
func (h *WaitlistHandler) CancelOffer(c *gin.Context) {
	waitlistID, ok := h.waitlistID(c)
	if !ok {
		return
	}

	if err := h.waitlist.CancelOffer(c.Request.Context(), waitlistID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Complete upgrade
// @Description Convert a paid offer into occupancy
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CompleteUpgradeRequest true "Upgrade"
// @Success 204
// @Failure 422 {object} httperr.Response
// @Router /upgrades/complete [post]
func (h *WaitlistHandler) CompleteUpgrade(c *gin.Context) {
	var req reqdto.CompleteUpgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.waitlist.CompleteUpgrade(c.Request.Context(), req.WaitlistID, req.PaymentIntentID); err != nil {
		abortDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Venue inventory snapshot
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} waitlist.InventorySnapshot
// @Router /inventory [get]
func (h *WaitlistHandler) Inventory(c *gin.Context) {
	snap, err := h.inventory.Snapshot(c.Request.Context())
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary Offerable rooms for a tier
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param tier query string true "Rental tier"
// @Success 200 {array} queries.OfferableRoomView
// @Router /rooms/offerable [get]
func (h *WaitlistHandler) OfferableRooms(c *gin.Context) {
	tier, err := session.NewRentalType(c.Query("tier"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid rental tier", nil)
		return
	}

	views, err := h.queries.OfferableRooms(c.Request.Context(), tier)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *WaitlistHandler) waitlistID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid waitlist entry ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}
