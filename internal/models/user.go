package models

import "time"

// Wallet roles. Admin is assigned via the admins table and is never
// auto-demoted; promoter/customer are reconciled against the on-chain
// isPromoter predicate on every identity lookup.
const (
	RoleCustomer = "customer"
	RolePromoter = "promoter"
	RoleAdmin    = "admin"
)

// User maps a wallet address to its stored role. Rows are created lazily on
// first authenticated access.
type User struct {
	WalletAddress string    `json:"wallet_address" gorm:"column:wallet_address;primaryKey"`
	Role          string    `json:"role" gorm:"column:role;default:customer"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at"`
}

// Admin is an allow-list entry. Presence in this table grants the admin
// role unconditionally.
type Admin struct {
	Address   string    `json:"address" gorm:"column:address;primaryKey"`
	Note      *string   `json:"note" gorm:"column:note"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}
