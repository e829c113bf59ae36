package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/Zaki4gg/asiq-tix/internal/models"
)

// MemoryDB implements models.Repository with in-process maps. It mirrors
// the postgres store's conditional-update semantics under a single mutex,
// so the oversell and double-scan guarantees hold and are testable without
// a database. Intended for tests and local development.
type MemoryDB struct {
	mu sync.Mutex

	events map[string]*models.Event
	txs    map[string]*models.Transaction
	users  map[string]*models.User
	admins map[string]*models.Admin
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		events: make(map[string]*models.Event),
		txs:    make(map[string]*models.Transaction),
		users:  make(map[string]*models.User),
		admins: make(map[string]*models.Admin),
	}
}

func (db *MemoryDB) Close() error { return nil }

func copyEvent(e *models.Event) *models.Event {
	c := *e
	return &c
}

func copyTx(t *models.Transaction) *models.Transaction {
	c := *t
	return &c
}

func (db *MemoryDB) CreateEvent(event *models.Event) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	db.events[event.ID] = copyEvent(event)
	return nil
}

func (db *MemoryDB) GetEvent(id string) (*models.Event, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	event, ok := db.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	return copyEvent(event), nil
}

func (db *MemoryDB) ListEvents(onlyListed bool) ([]*models.Event, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.Event
	for _, e := range db.events {
		if onlyListed && !e.Listed {
			continue
		}
		out = append(out, copyEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateISO > out[j].DateISO })
	return out, nil
}

func (db *MemoryDB) ListEventsByPromoter(wallet string) ([]*models.Event, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.Event
	for _, e := range db.events {
		if e.PromoterWallet == wallet {
			out = append(out, copyEvent(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateISO > out[j].DateISO })
	return out, nil
}

func (db *MemoryDB) UpdateEvent(event *models.Event) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.events[event.ID]; !ok {
		return models.ErrEventNotFound
	}
	event.UpdatedAt = time.Now()
	db.events[event.ID] = copyEvent(event)
	return nil
}

func (db *MemoryDB) DeleteEvent(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.events, id)
	return nil
}

func (db *MemoryDB) SetEventListed(id string, listed bool) (*models.Event, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	event, ok := db.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	event.Listed = listed
	event.UpdatedAt = time.Now()
	return copyEvent(event), nil
}

func (db *MemoryDB) CreateTransaction(tx *models.Transaction) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	db.txs[tx.ID] = copyTx(tx)
	return nil
}

func (db *MemoryDB) GetTransaction(id string) (*models.Transaction, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	tx, ok := db.txs[id]
	if !ok {
		return nil, models.ErrTicketNotFound
	}
	return copyTx(tx), nil
}

func (db *MemoryDB) ListTransactionsByWallet(wallet string, limit int) ([]*models.Transaction, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range db.txs {
		if tx.Wallet == wallet {
			out = append(out, copyTx(tx))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (db *MemoryDB) ListEventPurchases(eventID string, limit int) ([]*models.Transaction, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range db.txs {
		if tx.Kind == models.KindPurchase && tx.RefID != nil && *tx.RefID == eventID {
			out = append(out, copyTx(tx))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PurchaseTickets mirrors the postgres conditional increment: the quota
// check and the counter bump happen under one lock, so concurrent callers
// serialize exactly as they would on the database row.
func (db *MemoryDB) PurchaseTickets(eventID string, quantity int, rows []*models.Transaction) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	event, ok := db.events[eventID]
	if !ok {
		return models.ErrEventNotFound
	}
	if event.SoldTickets+quantity > event.TotalTickets {
		if event.Remaining() <= 0 {
			return models.ErrSoldOut
		}
		return models.ErrQuantityExceedsRemaining
	}

	event.SoldTickets += quantity
	now := time.Now()
	for _, row := range rows {
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		db.txs[row.ID] = copyTx(row)
	}
	return nil
}

// MarkScanned mirrors the postgres conditional update on scanned = false.
func (db *MemoryDB) MarkScanned(ticketID, promoterWallet string, at time.Time) (*models.Transaction, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, ok := db.txs[ticketID]
	if !ok {
		return nil, false, models.ErrTicketNotFound
	}
	if tx.Scanned {
		return copyTx(tx), false, nil
	}

	tx.Scanned = true
	scannedAt := at
	tx.ScannedAt = &scannedAt
	tx.ScannedBy = promoterWallet
	return copyTx(tx), true, nil
}

func (db *MemoryDB) EnsureUser(wallet string) (*models.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if user, ok := db.users[wallet]; ok {
		c := *user
		return &c, nil
	}
	user := &models.User{WalletAddress: wallet, Role: models.RoleCustomer, CreatedAt: time.Now()}
	db.users[wallet] = user
	c := *user
	return &c, nil
}

func (db *MemoryDB) UpdateUserRole(wallet, role string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if user, ok := db.users[wallet]; ok {
		user.Role = role
	}
	return nil
}

func (db *MemoryDB) IsAdmin(address string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.admins[address]
	return ok, nil
}

func (db *MemoryDB) UpsertAdmin(address string, note *string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.admins[address] = &models.Admin{Address: address, Note: note, CreatedAt: time.Now()}
	return nil
}

func (db *MemoryDB) RemoveAdmin(address string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.admins, address)
	return nil
}
