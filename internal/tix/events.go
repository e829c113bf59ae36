package tix

import (
	"github.com/google/uuid"

	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/pkg/validation"
)

// CreateEvent stores a new event owned by the given promoter wallet.
func (t *Tix) CreateEvent(promoterWallet string, event *models.Event) (*models.Event, error) {
	event.ID = uuid.New().String()
	event.PromoterWallet = promoterWallet
	event.SoldTickets = 0
	if err := t.repo.CreateEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetEvent returns the event by id.
func (t *Tix) GetEvent(id string) (*models.Event, error) {
	return t.repo.GetEvent(id)
}

// ListEvents returns events, restricted to listed ones unless includeAll.
func (t *Tix) ListEvents(includeAll bool) ([]*models.Event, error) {
	return t.repo.ListEvents(!includeAll)
}

// PromoterEvents returns the events owned by the wallet.
func (t *Tix) PromoterEvents(wallet string) ([]*models.Event, error) {
	return t.repo.ListEventsByPromoter(wallet)
}

// UpdateEvent applies changes to an event after checking the caller owns
// it or is an admin. The sold counter is never writable here; only the
// purchase ledger mutates it.
func (t *Tix) UpdateEvent(wallet string, isAdmin bool, updated *models.Event) (*models.Event, error) {
	current, err := t.repo.GetEvent(updated.ID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !validation.SameAddress(current.PromoterWallet, wallet) {
		return nil, models.ErrNotYourEvent
	}

	updated.PromoterWallet = current.PromoterWallet
	updated.SoldTickets = current.SoldTickets
	updated.CreatedAt = current.CreatedAt
	if err := t.repo.UpdateEvent(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEvent removes an event after the same ownership check as updates.
func (t *Tix) DeleteEvent(wallet string, isAdmin bool, id string) error {
	current, err := t.repo.GetEvent(id)
	if err != nil {
		return err
	}
	if !isAdmin && !validation.SameAddress(current.PromoterWallet, wallet) {
		return models.ErrNotYourEvent
	}
	return t.repo.DeleteEvent(id)
}

// SetEventListed toggles public visibility of an event.
func (t *Tix) SetEventListed(id string, listed bool) (*models.Event, error) {
	return t.repo.SetEventListed(id, listed)
}
