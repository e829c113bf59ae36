package http_api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// polPrice quotes the current POL price in rupiah.
func (s *HTTPServer) polPrice(c *gin.Context) {
	rate, err := s.pricing.PolIDRRate(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"price_idr":  rate,
		"source":     "coingecko",
		"updated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// idrToWei converts a rupiah amount into wei at the current quote.
func (s *HTTPServer) idrToWei(c *gin.Context) {
	var req struct {
		AmountIDR int64 `json:"amount_idr" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "amount_idr is required"})
		return
	}
	if req.AmountIDR <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "amount_idr must be positive"})
		return
	}

	wei, rate, err := s.pricing.IDRToWei(c.Request.Context(), req.AmountIDR)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"amount_idr":  req.AmountIDR,
		"idr_per_pol": rate,
		"price_wei":   wei.String(),
	})
}
