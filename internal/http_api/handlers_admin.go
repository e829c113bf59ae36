package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zaki4gg/asiq-tix/pkg/validation"
)

// adminEventTransactions lists ticket purchases for any event.
func (s *HTTPServer) adminEventTransactions(c *gin.Context) {
	event, err := s.tix.GetEvent(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	items, err := s.tix.EventPurchases(event.ID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event, "items": items})
}

func (s *HTTPServer) addAdmin(c *gin.Context) {
	var req struct {
		Address string  `json:"address" binding:"required"`
		Note    *string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "address is required"})
		return
	}
	address, err := validation.ValidateAndNormalizeAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address"})
		return
	}

	if err := s.tix.AddAdmin(address, req.Note); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "address": address})
}

func (s *HTTPServer) removeAdmin(c *gin.Context) {
	address, err := validation.ValidateAndNormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address"})
		return
	}
	if validation.SameAddress(address, walletOf(c)) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "cannot remove yourself"})
		return
	}

	if err := s.tix.RemoveAdmin(address); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "address": address})
}

// grantPromoter force-sets a wallet's stored role to promoter. The role
// resolver still reconciles it against the contract on the wallet's next
// request.
func (s *HTTPServer) grantPromoter(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "address is required"})
		return
	}
	address, err := validation.ValidateAndNormalizeAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address"})
		return
	}

	user, err := s.tix.GrantPromoter(address)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
