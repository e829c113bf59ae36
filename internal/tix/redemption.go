package tix

import (
	"time"

	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/pkg/validation"
)

// Scan statuses. A ticket moves UNSCANNED -> SCANNED once; there is no
// reverse transition.
const (
	ScanStatusScanned        = "scanned"
	ScanStatusAlreadyScanned = "already_scanned"
)

// ScanResult is the outcome of a scan call. AlreadyScanned is not an
// error: it is the expected terminal-state signal for a second scan, and
// Ticket then carries the original scan's fields.
type ScanResult struct {
	Status string
	Ticket *models.Transaction
	Event  *models.Event
}

// Scan redeems a ticket for the given promoter. Ownership is checked
// against the ticket's event, then the scanned flag is flipped with a
// conditional update guarded by scanned = false. Under concurrent scans of
// the same ticket exactly one caller gets ScanStatusScanned; everyone else
// gets ScanStatusAlreadyScanned, on any interleaving and across server
// instances.
func (t *Tix) Scan(promoterWallet, ticketID string) (*ScanResult, error) {
	ticket, event, err := t.loadOwnedTicket(promoterWallet, ticketID)
	if err != nil {
		return nil, err
	}

	updated, won, err := t.repo.MarkScanned(ticketID, promoterWallet, time.Now())
	if err != nil {
		return nil, err
	}
	if !won {
		return &ScanResult{
			Status: ScanStatusAlreadyScanned,
			Ticket: updated,
			Event:  event,
		}, nil
	}

	t.logger.Info("Ticket redeemed", " ticket ", ticket.ID, " event ", event.ID, " promoter ", promoterWallet)
	t.publishScan(updated)
	if t.notifier != nil {
		t.notifier.NotifyScan(event, updated.ID, promoterWallet)
	}

	return &ScanResult{
		Status: ScanStatusScanned,
		Ticket: updated,
		Event:  event,
	}, nil
}

// VerifyTicket is the read-only companion to Scan: it performs the same
// ownership checks without mutating anything, and optionally guards
// against the scanner having a different event selected than the one the
// ticket belongs to.
func (t *Tix) VerifyTicket(promoterWallet, ticketID, expectedEventID string) (*models.Transaction, *models.Event, error) {
	ticket, event, err := t.loadOwnedTicket(promoterWallet, ticketID)
	if err != nil {
		return nil, nil, err
	}

	if expectedEventID != "" && expectedEventID != event.ID {
		return nil, nil, models.ErrWrongEvent
	}

	return ticket, event, nil
}

// loadOwnedTicket loads a purchase row and its event, enforcing that the
// event belongs to the calling promoter.
func (t *Tix) loadOwnedTicket(promoterWallet, ticketID string) (*models.Transaction, *models.Event, error) {
	ticket, err := t.repo.GetTransaction(ticketID)
	if err != nil {
		return nil, nil, err
	}

	if ticket.Kind != models.KindPurchase {
		return nil, nil, models.ErrNotAPurchase
	}
	if ticket.RefID == nil || *ticket.RefID == "" {
		return nil, nil, models.ErrTicketHasNoEvent
	}

	event, err := t.repo.GetEvent(*ticket.RefID)
	if err != nil {
		return nil, nil, err
	}

	if !validation.SameAddress(event.PromoterWallet, promoterWallet) {
		return nil, nil, models.ErrNotYourEvent
	}

	return ticket, event, nil
}
