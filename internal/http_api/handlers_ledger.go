package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zaki4gg/asiq-tix/internal/tix"
)

// PurchaseRequest is the ticket purchase body. Quantity is optional; when
// absent it is inferred from the amount and the event's unit price.
type PurchaseRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	Quantity    int    `json:"quantity"`
	RefID       string `json:"ref_id"`
	Description string `json:"description"`
	TxHash      string `json:"tx_hash"`
}

// WithdrawRequest is the withdraw-log body.
type WithdrawRequest struct {
	Amount      int64  `json:"amount" binding:"required"`
	RefID       string `json:"ref_id"`
	Description string `json:"description"`
	TxHash      string `json:"tx_hash"`
}

func (s *HTTPServer) walletTransactions(c *gin.Context) {
	txs, err := s.tix.WalletTransactions(walletOf(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": txs})
}

func (s *HTTPServer) topup(c *gin.Context) {
	var req struct {
		Amount int64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "amount is required"})
		return
	}

	tx, err := s.tix.Topup(walletOf(c), req.Amount)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tx": tx})
}

func (s *HTTPServer) purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "amount is required"})
		return
	}

	quantity, txs, err := s.tix.Purchase(tix.PurchaseParams{
		Wallet:      walletOf(c),
		Amount:      req.Amount,
		Quantity:    req.Quantity,
		EventID:     req.RefID,
		Description: req.Description,
		TxHash:      req.TxHash,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "quantity": quantity, "txs": txs})
}

func (s *HTTPServer) withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "amount is required"})
		return
	}

	tx, err := s.tix.Withdraw(tix.WithdrawParams{
		Wallet:      walletOf(c),
		Amount:      req.Amount,
		RefID:       req.RefID,
		Description: req.Description,
		TxHash:      req.TxHash,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "tx": tx})
}
