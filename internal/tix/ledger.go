package tix

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Zaki4gg/asiq-tix/internal/models"
)

// MaxTicketsPerPurchase is the hard cap on tickets per purchase call.
const MaxTicketsPerPurchase = 20

// walletFeedLimit bounds the wallet transaction feed.
const walletFeedLimit = 100

// eventPurchasesLimit bounds per-event purchase listings.
const eventPurchasesLimit = 500

// PurchaseParams are the caller-supplied inputs of a ticket purchase.
type PurchaseParams struct {
	Wallet      string
	Amount      int64
	Quantity    int    // 0 means infer from Amount and the unit price
	EventID     string // empty for free-form ledger purchases
	Description string
	TxHash      string
}

// Purchase appends one ledger row per ticket and bumps the event's sold
// counter. The quota check and the increment run inside a single store
// transaction, so concurrent purchases can never oversell the event.
//
// Quantity resolution: an explicit quantity >= 1 wins. Otherwise, when the
// event has a unit price, the quantity is inferred from Amount - but only
// when Amount is an exact multiple of the unit price; anything else fails
// with ErrAmountPriceMismatch rather than silently rounding. With no basis
// for inference the quantity defaults to 1.
func (t *Tix) Purchase(p PurchaseParams) (int, []*models.Transaction, error) {
	if p.Amount <= 0 {
		return 0, nil, models.ErrInvalidAmount
	}

	quantity := 0
	if p.Quantity >= 1 {
		quantity = p.Quantity
	}

	var event *models.Event
	var unitPrice int64

	if p.EventID != "" {
		var err error
		event, err = t.repo.GetEvent(p.EventID)
		if err != nil {
			return 0, nil, err
		}

		if event.TotalTickets <= 0 {
			return 0, nil, models.ErrNoQuota
		}
		if event.Remaining() <= 0 {
			return 0, nil, models.ErrSoldOut
		}

		if quantity == 0 && event.PriceIDR > 0 {
			inferred, err := inferQuantity(p.Amount, event.PriceIDR)
			if err != nil {
				return 0, nil, err
			}
			quantity = inferred
		}
		if quantity == 0 {
			quantity = 1
		}

		if quantity > event.Remaining() {
			return 0, nil, models.ErrQuantityExceedsRemaining
		}

		unitPrice = event.PriceIDR
		if unitPrice <= 0 {
			return 0, nil, models.ErrInvalidPrice
		}
	}

	if quantity == 0 {
		quantity = 1
	}
	if quantity > MaxTicketsPerPurchase {
		return 0, nil, models.ErrQuantityTooLarge
	}

	// Free-form purchases without an event derive the unit price from the
	// paid amount.
	if unitPrice == 0 {
		unitPrice = decimal.NewFromInt(p.Amount).
			DivRound(decimal.NewFromInt(int64(quantity)), 0).IntPart()
		if unitPrice < 1 {
			unitPrice = 1
		}
	}

	description := p.Description
	if description == "" {
		description = "Ticket purchase"
	}

	rows := make([]*models.Transaction, quantity)
	for i := range rows {
		rowDescription := description
		if quantity > 1 {
			rowDescription = fmt.Sprintf("%s (%d/%d)", description, i+1, quantity)
		}
		rows[i] = &models.Transaction{
			ID:          uuid.New().String(),
			Wallet:      p.Wallet,
			Kind:        models.KindPurchase,
			Amount:      -unitPrice,
			Description: rowDescription,
			Status:      models.StatusConfirmed,
		}
		if p.EventID != "" {
			eventID := p.EventID
			rows[i].RefID = &eventID
		}
		if p.TxHash != "" {
			hash := p.TxHash
			rows[i].TxHash = &hash
		}
	}

	if event != nil {
		if err := t.repo.PurchaseTickets(event.ID, quantity, rows); err != nil {
			return 0, nil, err
		}
	} else {
		for _, row := range rows {
			if err := t.repo.CreateTransaction(row); err != nil {
				return 0, nil, err
			}
		}
	}

	for _, row := range rows {
		t.publishTransaction(row)
	}
	if t.notifier != nil && event != nil {
		t.notifier.NotifyPurchase(event, p.Wallet, quantity)
	}

	return quantity, rows, nil
}

// inferQuantity derives the ticket count from the paid amount. The amount
// must be an exact multiple of the unit price.
func inferQuantity(amount, unitPrice int64) (int, error) {
	amountDec := decimal.NewFromInt(amount)
	unitDec := decimal.NewFromInt(unitPrice)
	if !amountDec.Mod(unitDec).IsZero() {
		return 0, models.ErrAmountPriceMismatch
	}
	quantity := amountDec.Div(unitDec).IntPart()
	if quantity < 1 {
		return 0, models.ErrAmountPriceMismatch
	}
	return int(quantity), nil
}

// Topup appends a single credit ledger row.
func (t *Tix) Topup(wallet string, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	tx := &models.Transaction{
		ID:          uuid.New().String(),
		Wallet:      wallet,
		Kind:        models.KindTopup,
		Amount:      amount,
		Description: "Top up",
		Status:      models.StatusConfirmed,
	}
	if err := t.repo.CreateTransaction(tx); err != nil {
		return nil, err
	}
	t.publishTransaction(tx)
	return tx, nil
}

// WithdrawParams are the inputs of a withdraw ledger entry.
type WithdrawParams struct {
	Wallet      string
	Amount      int64
	RefID       string
	Description string
	TxHash      string
}

// Withdraw records a funds withdrawal in the ledger.
func (t *Tix) Withdraw(p WithdrawParams) (*models.Transaction, error) {
	if p.Amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	description := p.Description
	if description == "" {
		description = "Withdraw"
	}
	tx := &models.Transaction{
		ID:          uuid.New().String(),
		Wallet:      p.Wallet,
		Kind:        models.KindWithdraw,
		Amount:      p.Amount,
		Description: description,
		Status:      models.StatusConfirmed,
	}
	if p.RefID != "" {
		refID := p.RefID
		tx.RefID = &refID
	}
	if p.TxHash != "" {
		hash := p.TxHash
		tx.TxHash = &hash
	}
	if err := t.repo.CreateTransaction(tx); err != nil {
		return nil, err
	}
	t.publishTransaction(tx)
	return tx, nil
}

// WalletTransactions returns the wallet's latest ledger entries.
func (t *Tix) WalletTransactions(wallet string) ([]*models.Transaction, error) {
	return t.repo.ListTransactionsByWallet(wallet, walletFeedLimit)
}

// EventPurchases returns the latest ticket purchases for an event.
func (t *Tix) EventPurchases(eventID string) ([]*models.Transaction, error) {
	return t.repo.ListEventPurchases(eventID, eventPurchasesLimit)
}
