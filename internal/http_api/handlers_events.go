package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zaki4gg/asiq-tix/internal/models"
)

// EventRequest is the mutable subset of an event. On updates every field
// is optional; absent fields keep their stored value.
type EventRequest struct {
	Title        *string `json:"title"`
	DateISO      *string `json:"date_iso"`
	Venue        *string `json:"venue"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"image_url"`
	PriceIDR     *int64  `json:"price_idr"`
	TotalTickets *int    `json:"total_tickets"`
	Listed       *bool   `json:"listed"`
	ChainEventID *int64  `json:"chain_event_id"`
}

func (r *EventRequest) applyTo(event *models.Event) {
	if r.Title != nil {
		event.Title = *r.Title
	}
	if r.DateISO != nil {
		event.DateISO = *r.DateISO
	}
	if r.Venue != nil {
		event.Venue = *r.Venue
	}
	if r.Description != nil {
		event.Description = *r.Description
	}
	if r.ImageURL != nil {
		event.ImageURL = r.ImageURL
	}
	if r.PriceIDR != nil {
		event.PriceIDR = *r.PriceIDR
	}
	if r.TotalTickets != nil {
		event.TotalTickets = *r.TotalTickets
	}
	if r.Listed != nil {
		event.Listed = *r.Listed
	}
	if r.ChainEventID != nil {
		event.ChainEventID = r.ChainEventID
	}
}

// listEvents returns listed events; admins may pass ?all=1 to include
// unlisted ones.
func (s *HTTPServer) listEvents(c *gin.Context) {
	includeAll := c.Query("all") == "1" && s.isAdminCaller(c)
	events, err := s.tix.ListEvents(includeAll)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events})
}

func (s *HTTPServer) getEvent(c *gin.Context) {
	event, err := s.tix.GetEvent(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if !event.Listed && !s.isAdminCaller(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "event_not_listed"})
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *HTTPServer) createEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid event body"})
		return
	}
	if req.Title == nil || *req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}
	if req.TotalTickets == nil || *req.TotalTickets <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "total_tickets must be positive"})
		return
	}

	event := &models.Event{Listed: true}
	req.applyTo(event)

	created, err := s.tix.CreateEvent(walletOf(c), event)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *HTTPServer) updateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid event body"})
		return
	}

	current, err := s.tix.GetEvent(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	updated := *current
	req.applyTo(&updated)

	saved, err := s.tix.UpdateEvent(walletOf(c), s.isAdminCaller(c), &updated)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *HTTPServer) deleteEvent(c *gin.Context) {
	if err := s.tix.DeleteEvent(walletOf(c), s.isAdminCaller(c), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *HTTPServer) setEventListed(c *gin.Context) {
	var req struct {
		Listed *bool `json:"listed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "listed is required"})
		return
	}
	event, err := s.tix.SetEventListed(c.Param("id"), *req.Listed)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *HTTPServer) myEvents(c *gin.Context) {
	events, err := s.tix.PromoterEvents(walletOf(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": events})
}
