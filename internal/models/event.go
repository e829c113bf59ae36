package models

import "time"

// Event represents a ticketed event owned by a single promoter wallet.
type Event struct {
	// ID is the unique event identifier.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Title is the display title of the event.
	Title string `json:"title" gorm:"column:title"`
	// DateISO is the event date in ISO-8601 form.
	DateISO string `json:"date_iso" gorm:"column:date_iso;index"`
	// Venue is the venue name.
	Venue string `json:"venue" gorm:"column:venue"`
	// Description is free-form event copy.
	Description string `json:"description" gorm:"column:description"`
	// ImageURL points at the event poster, if any.
	ImageURL *string `json:"image_url" gorm:"column:image_url"`
	// PriceIDR is the configured ticket price in whole rupiah.
	PriceIDR int64 `json:"price_idr" gorm:"column:price_idr"`
	// TotalTickets is the sale quota for the event.
	TotalTickets int `json:"total_tickets" gorm:"column:total_tickets"`
	// SoldTickets counts tickets sold so far. Mutated only by the purchase
	// ledger; 0 <= SoldTickets <= TotalTickets holds at all times.
	SoldTickets int `json:"sold_tickets" gorm:"column:sold_tickets;default:0"`
	// Listed controls public visibility.
	Listed bool `json:"listed" gorm:"column:listed;default:true"`
	// PromoterWallet is the owning promoter's wallet address (lowercase).
	PromoterWallet string `json:"promoter_wallet" gorm:"column:promoter_wallet;index"`
	// ChainEventID links to the on-chain event id, if the event is mirrored
	// on the tickets contract.
	ChainEventID *int64 `json:"chain_event_id" gorm:"column:chain_event_id"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// Remaining returns the number of unsold tickets.
func (e *Event) Remaining() int {
	return e.TotalTickets - e.SoldTickets
}
