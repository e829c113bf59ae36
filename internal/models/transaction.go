package models

import "time"

// Transaction kinds. A purchase row represents exactly one ticket.
const (
	KindTopup    = "topup"
	KindPurchase = "purchase"
	KindWithdraw = "withdraw"
)

// StatusConfirmed is the only status written by this service; pending/failed
// states belong to the on-chain settlement flow.
const StatusConfirmed = "confirmed"

// Transaction is an immutable ledger entry. Rows are never deleted; the only
// mutation in normal operation is the redemption engine flipping the
// scanned fields, once.
type Transaction struct {
	// ID is the unique ledger entry id (UUID). For purchases this is the
	// ticket id encoded in the QR code.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Wallet is the owning wallet address (lowercase).
	Wallet string `json:"wallet" gorm:"column:wallet;index"`
	// Kind is one of topup, purchase, withdraw.
	Kind string `json:"kind" gorm:"column:kind;index"`
	// Amount is signed: purchases carry the negative unit price (debit),
	// topups and withdraws are positive.
	Amount int64 `json:"amount" gorm:"column:amount"`
	// RefID references the purchased event's id for purchase rows.
	RefID *string `json:"ref_id" gorm:"column:ref_id;index"`
	// Description is a human-readable label, e.g. "Ticket purchase (2/3)".
	Description string `json:"description" gorm:"column:description"`
	// Status is the settlement status.
	Status string `json:"status" gorm:"column:status"`
	// TxHash is the on-chain transaction hash, when known.
	TxHash *string `json:"tx_hash" gorm:"column:tx_hash"`

	// Scanned transitions false -> true at most once, and only by the
	// promoter owning the referenced event.
	Scanned   bool       `json:"scanned" gorm:"column:scanned;default:false"`
	ScannedAt *time.Time `json:"scanned_at" gorm:"column:scanned_at"`
	ScannedBy string     `json:"scanned_by" gorm:"column:scanned_by"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index"`
}
