package http_api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zaki4gg/asiq-tix/internal/auth"
	"github.com/Zaki4gg/asiq-tix/pkg/validation"
)

// VerifyRequest is the signed login message exchange.
type VerifyRequest struct {
	Message   string `json:"message" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

// issueNonce hands out a single-use login challenge for a wallet address.
func (s *HTTPServer) issueNonce(c *gin.Context) {
	address, err := validation.ValidateAndNormalizeAddress(c.Query("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid address"})
		return
	}

	challenge, ttl, err := s.handshake.IssueNonce(c.Request.Context(), address)
	if err != nil {
		s.logger.Error("Failed to issue nonce", " address ", address, " error ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":      challenge,
		"expires_in": int(ttl.Seconds()),
	})
}

// verifySignature completes the login handshake and mints a session token.
func (s *HTTPServer) verifySignature(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "message & signature required"})
		return
	}

	address, token, err := s.handshake.VerifySignature(c.Request.Context(), req.Message, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrNoAddressInMessage):
			c.JSON(http.StatusBadRequest, gin.H{"message": "address not found in message"})
		case errors.Is(err, auth.ErrNoNonceInMessage), errors.Is(err, auth.ErrNonceInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid or expired nonce"})
		case errors.Is(err, auth.ErrBadSignature):
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad signature"})
		case errors.Is(err, auth.ErrAddressMismatch):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "address mismatch"})
		default:
			s.logger.Error("Signature verification failed: ", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"address": address,
		"token":   token,
	})
}

// me resolves the caller's role, reconciling against the chain.
func (s *HTTPServer) me(c *gin.Context) {
	address := walletOf(c)
	role, err := s.tix.ResolveRole(address)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": address, "role": role})
}
