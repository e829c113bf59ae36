package http_api

import "github.com/Zaki4gg/asiq-tix/internal/models"

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	api := s.router.Group("/api")

	api.GET("/health", s.health)

	// Wallet login handshake
	api.GET("/nonce", s.issueNonce)
	api.POST("/verify", s.verifySignature)
	api.GET("/me", s.requireAddress(), s.me)

	// Events
	api.GET("/events", s.identity(), s.listEvents)
	api.GET("/events/:id", s.identity(), s.getEvent)
	api.POST("/events", s.requireAddress(), s.requireRole(models.RoleAdmin, models.RolePromoter), s.createEvent)
	api.PUT("/events/:id", s.requireAddress(), s.updateEvent)
	api.DELETE("/events/:id", s.requireAddress(), s.deleteEvent)
	api.PATCH("/events/:id/list", s.requireAddress(), s.requireAdmin(), s.setEventListed)
	api.GET("/my-events", s.requireAddress(), s.requireRole(models.RolePromoter), s.myEvents)

	// Ledger
	api.GET("/transactions", s.requireAddress(), s.walletTransactions)
	api.POST("/topup", s.requireAddress(), s.topup)
	api.POST("/purchase", s.requireAddress(), s.purchase)
	api.POST("/withdraw-log", s.requireAddress(), s.withdraw)

	// Ticket redemption
	api.POST("/tickets/scan", s.requireAddress(), s.requireRole(models.RolePromoter), s.scanTicket)
	api.GET("/tickets/verify/:txId", s.requireAddress(), s.requireRole(models.RolePromoter), s.verifyTicket)
	api.GET("/promoter/events/:id/transactions", s.requireAddress(), s.requireRole(models.RolePromoter), s.promoterEventTransactions)

	// Admin
	api.GET("/admin/events/:id/transactions", s.requireAddress(), s.requireAdmin(), s.adminEventTransactions)
	api.POST("/admins", s.requireAddress(), s.requireAdmin(), s.addAdmin)
	api.DELETE("/admins/:address", s.requireAddress(), s.requireAdmin(), s.removeAdmin)
	api.POST("/promoters", s.requireAddress(), s.requireAdmin(), s.grantPromoter)

	// Pricing
	api.GET("/price/pol", s.polPrice)
	api.POST("/price/idr-to-wei", s.idrToWei)
}
