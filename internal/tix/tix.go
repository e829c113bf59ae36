package tix

import (
	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

// Tix is the main application struct. It serves all business logic: role
// resolution, the purchase ledger, the redemption engine and event
// management, over an injected store and chain client.
type Tix struct {
	logger *logger.Logger

	repo      models.Repository
	chain     models.ChainClient
	publisher models.TxPublisher
	notifier  models.Notifier
}

// NewTix creates a new Tix instance. chain, publisher and notifier are
// optional; a nil chain client resolves every wallet to customer, nil
// publisher/notifier disable fan-out.
func NewTix(
	repo models.Repository,
	chain models.ChainClient,
	publisher models.TxPublisher,
	notifier models.Notifier,
	logger *logger.Logger,
) *Tix {
	return &Tix{
		repo:      repo,
		chain:     chain,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// publishTransaction fans a new ledger row out to the bus. Best effort.
func (t *Tix) publishTransaction(tx *models.Transaction) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.PublishTransaction(tx); err != nil {
		t.logger.Error("Failed to publish transaction event", " id ", tx.ID, " error ", err)
	}
}

// publishScan fans a redeemed ticket out to the bus. Best effort.
func (t *Tix) publishScan(tx *models.Transaction) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.PublishScan(tx); err != nil {
		t.logger.Error("Failed to publish scan event", " id ", tx.ID, " error ", err)
	}
}
