package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/internal/pricing"
)

// domainError maps the core's sentinel errors onto HTTP statuses and the
// stable error codes clients key on.
var domainErrors = []struct {
	err    error
	status int
	code   string
}{
	{models.ErrEventNotFound, http.StatusNotFound, "event_not_found"},
	{models.ErrTicketNotFound, http.StatusNotFound, "ticket_not_found"},
	{models.ErrNotYourEvent, http.StatusForbidden, "forbidden_not_your_event"},
	{models.ErrWrongEvent, http.StatusForbidden, "forbidden_wrong_event"},
	{models.ErrForbiddenRole, http.StatusForbidden, "forbidden_role"},
	{models.ErrNoQuota, http.StatusBadRequest, "no_ticket_quota"},
	{models.ErrSoldOut, http.StatusBadRequest, "sold_out"},
	{models.ErrQuantityExceedsRemaining, http.StatusBadRequest, "quantity_exceeds_remaining"},
	{models.ErrQuantityTooLarge, http.StatusBadRequest, "quantity_too_large"},
	{models.ErrInvalidPrice, http.StatusBadRequest, "invalid_event_price"},
	{models.ErrAmountPriceMismatch, http.StatusBadRequest, "amount_price_mismatch"},
	{models.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{models.ErrNotAPurchase, http.StatusBadRequest, "not_a_ticket_purchase"},
	{models.ErrTicketHasNoEvent, http.StatusBadRequest, "ticket_has_no_event"},
	{pricing.ErrPriceUnavailable, http.StatusBadGateway, "price_unavailable"},
}

// respondError writes the mapped status and code for a core error, falling
// back to a 500 for anything unrecognised (store failures and the like).
func (s *HTTPServer) respondError(c *gin.Context, err error) {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			c.JSON(m.status, gin.H{"error": m.code})
			return
		}
	}
	s.logger.Error("Request failed: ", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}
