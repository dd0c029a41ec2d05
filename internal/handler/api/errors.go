package api

import (
	"errors"
	"net/http"

	"clubops/internal/domain/checkout"
	"clubops/internal/domain/payment"
	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"
	"clubops/internal/handler/httperr"
	"clubops/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// abortDomainError maps usecase and domain errors onto the HTTP surface.
// Not-found is 404, contention is 409, violated business rules are 422.
func abortDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrSessionNotFound),
		errors.Is(err, errs.ErrSessionInactive),
		errors.Is(err, errs.ErrWaitlistNotFound),
		errors.Is(err, errs.ErrCheckoutNotFound),
		errors.Is(err, errs.ErrPaymentIntentNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, err.Error(), nil)

	case errors.Is(err, errs.ErrLaneBusy):
		httperr.AbortWithError(c, http.StatusConflict, err, "Lane already has an active session", nil)
	case errors.Is(err, errs.ErrAssignmentRaceLost):
		httperr.AbortWithError(c, http.StatusConflict, err, "Resource was claimed by another session", nil)
	case errors.Is(err, errs.ErrOfferConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Room is no longer available for this offer", nil)
	case errors.Is(err, errs.ErrCheckoutClaimed), errors.Is(err, checkout.ErrAlreadyClaimed),
		errors.Is(err, checkout.ErrWrongClaimer):
		httperr.AbortWithError(c, http.StatusConflict, err, "Checkout request is claimed by another staff member", nil)

	case errors.Is(err, errs.ErrBypassDenied):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Manager authorization failed", nil)

	case errors.Is(err, session.ErrPaymentDue):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err,
			"Payment must be marked as paid before assignment.", nil)
	case errors.Is(err, session.ErrSelectionLocked),
		errors.Is(err, session.ErrNoProposal),
		errors.Is(err, session.ErrSessionClosed),
		errors.Is(err, session.ErrPastDueBlocked),
		errors.Is(err, session.ErrSelectionNotLocked),
		errors.Is(err, session.ErrNotAcknowledged),
		errors.Is(err, session.ErrAgreementNotSigned),
		errors.Is(err, session.ErrConfirmationPending),
		errors.Is(err, session.ErrNoConfirmationAsked),
		errors.Is(err, session.ErrAlreadyAssigned),
		errors.Is(err, session.ErrIntentAlreadyCreated),
		errors.Is(err, errs.ErrResourceUnavailable),
		errors.Is(err, errs.ErrPaymentNotPaid),
		errors.Is(err, errs.ErrWaitlistNotActive),
		errors.Is(err, errs.ErrWaitlistNotOffered),
		errors.Is(err, errs.ErrNoProposal),
		errors.Is(err, waitlist.ErrNotActive),
		errors.Is(err, waitlist.ErrNotOffered),
		errors.Is(err, checkout.ErrNotClaimed),
		errors.Is(err, checkout.ErrFeeOutstanding),
		errors.Is(err, checkout.ErrTerminal),
		errors.Is(err, payment.ErrAlreadyPaid),
		errors.Is(err, payment.ErrNotPaid),
		errors.Is(err, errs.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, err.Error(), nil)

	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
