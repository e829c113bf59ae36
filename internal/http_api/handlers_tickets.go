package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zaki4gg/asiq-tix/internal/tix"
	"github.com/Zaki4gg/asiq-tix/pkg/validation"
)

// ScanRequest identifies the ticket (ledger row) being redeemed.
type ScanRequest struct {
	TxID string `json:"tx_id" binding:"required"`
}

// scanTicket redeems a ticket. A repeated scan is a 409 with the original
// scan's details so gate staff can see who got there first.
func (s *HTTPServer) scanTicket(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "tx_id is required"})
		return
	}

	result, err := s.tix.Scan(walletOf(c), req.TxID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if result.Status == tix.ScanStatusAlreadyScanned {
		c.JSON(http.StatusConflict, gin.H{
			"ok":      false,
			"status":  result.Status,
			"message": "Ticket already scanned",
			"tx":      result.Ticket,
			"event":   result.Event,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"status":  result.Status,
		"message": "Ticket scanned",
		"tx":      result.Ticket,
		"event":   result.Event,
	})
}

// verifyTicket is the read-only pre-scan check. An optional ?eventId=
// rejects tickets that belong to a different event than the gate expects.
func (s *HTTPServer) verifyTicket(c *gin.Context) {
	ticket, event, err := s.tix.VerifyTicket(walletOf(c), c.Param("txId"), c.Query("eventId"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tx": ticket, "event": event})
}

// promoterEventTransactions lists ticket purchases for an event the
// calling promoter owns.
func (s *HTTPServer) promoterEventTransactions(c *gin.Context) {
	event, err := s.tix.GetEvent(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !validation.SameAddress(event.PromoterWallet, walletOf(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden_not_your_event"})
		return
	}

	items, err := s.tix.EventPurchases(event.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event, "items": items})
}
