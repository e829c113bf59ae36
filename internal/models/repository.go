package models

import "time"

// Repository is the row store behind events, ledger entries, users and
// admins. All cross-request consistency rides on its conditional-write
// primitives; callers never take in-process locks around it because
// multiple server instances may share the same store.
type Repository interface {
	// Events
	CreateEvent(event *Event) error
	GetEvent(id string) (*Event, error)
	ListEvents(onlyListed bool) ([]*Event, error)
	ListEventsByPromoter(wallet string) ([]*Event, error)
	UpdateEvent(event *Event) error
	DeleteEvent(id string) error
	SetEventListed(id string, listed bool) (*Event, error)

	// Ledger
	CreateTransaction(tx *Transaction) error
	GetTransaction(id string) (*Transaction, error)
	ListTransactionsByWallet(wallet string, limit int) ([]*Transaction, error)
	ListEventPurchases(eventID string, limit int) ([]*Transaction, error)

	// PurchaseTickets performs the quota increment and the per-ticket row
	// inserts in a single transaction. The increment is a conditional
	// update guarded by sold + quantity <= total; on guard failure it
	// returns ErrSoldOut or ErrQuantityExceedsRemaining and inserts
	// nothing.
	PurchaseTickets(eventID string, quantity int, rows []*Transaction) error

	// MarkScanned flips scanned to true for the given ticket iff it is
	// still false. It returns the row and whether this call won the
	// transition; a false second return with a nil error means the ticket
	// was already scanned and the returned row carries the prior scan
	// fields.
	MarkScanned(ticketID, promoterWallet string, at time.Time) (*Transaction, bool, error)

	// Users and admins
	EnsureUser(wallet string) (*User, error)
	UpdateUserRole(wallet, role string) error
	IsAdmin(address string) (bool, error)
	UpsertAdmin(address string, note *string) error
	RemoveAdmin(address string) error

	Close() error
}

// ChainClient is the read-only on-chain predicate used by role resolution.
// Implementations bound each call with their own timeout so a slow RPC
// node cannot hang request handling.
type ChainClient interface {
	IsPromoter(address string) (bool, error)
	Close() error
}

// TxPublisher fans ledger changes out to interested consumers (the original
// UI subscribes to these to refresh wallets and scan screens live).
// Publish failures must never fail the originating request.
type TxPublisher interface {
	PublishTransaction(tx *Transaction) error
	PublishScan(tx *Transaction) error
	Close() error
}

// Notifier delivers operational notifications (sales, redemptions) to the
// configured operations channel. Best effort.
type Notifier interface {
	NotifyPurchase(event *Event, buyer string, quantity int)
	NotifyScan(event *Event, ticketID, promoter string)
}
