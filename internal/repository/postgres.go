package repository

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

// writeConflictRetries bounds internal retries of serialization and
// deadlock failures on the conditional-update paths.
const writeConflictRetries = 3

// isWriteConflict reports whether the error is a transient postgres write
// conflict worth retrying (serialization failure or deadlock).
func isWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// withConflictRetry runs op, retrying only transient write conflicts a
// bounded number of times. Domain errors pass through on the first
// attempt.
func withConflictRetry(op func() error) error {
	var final error
	_ = retry.Retry(func(uint) error {
		final = op()
		if final != nil && isWriteConflict(final) {
			return final
		}
		return nil
	}, strategy.Limit(writeConflictRetries))
	return final
}

type PostgresDB struct {
	logger *logger.Logger

	Conn *gorm.DB
}

func NewPostgresDB(user, password, dbname, host string, port int, logger *logger.Logger) (models.Repository, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		host, user, password, dbname, port)

	// Configure GORM logger to suppress "record not found" messages
	gormLogger := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.AutoMigrate(&models.Event{}, &models.Transaction{}, &models.User{}, &models.Admin{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL!")
	return &PostgresDB{Conn: db, logger: logger}, nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.Conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.Close()
}

func (db *PostgresDB) CreateEvent(event *models.Event) error {
	if err := db.Conn.Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (db *PostgresDB) GetEvent(id string) (*models.Event, error) {
	var event models.Event
	if err := db.Conn.Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (db *PostgresDB) ListEvents(onlyListed bool) ([]*models.Event, error) {
	var events []*models.Event
	q := db.Conn.Order("date_iso DESC")
	if onlyListed {
		q = q.Where("listed = ?", true)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (db *PostgresDB) ListEventsByPromoter(wallet string) ([]*models.Event, error) {
	var events []*models.Event
	if err := db.Conn.Where("promoter_wallet = ?", wallet).Order("date_iso DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list promoter events: %w", err)
	}
	return events, nil
}

func (db *PostgresDB) UpdateEvent(event *models.Event) error {
	if err := db.Conn.Save(event).Error; err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (db *PostgresDB) DeleteEvent(id string) error {
	if err := db.Conn.Where("id = ?", id).Delete(&models.Event{}).Error; err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (db *PostgresDB) SetEventListed(id string, listed bool) (*models.Event, error) {
	res := db.Conn.Model(&models.Event{}).Where("id = ?", id).Update("listed", listed)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update event listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrEventNotFound
	}
	return db.GetEvent(id)
}

func (db *PostgresDB) CreateTransaction(tx *models.Transaction) error {
	if err := db.Conn.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (db *PostgresDB) GetTransaction(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := db.Conn.Where("id = ?", id).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (db *PostgresDB) ListTransactionsByWallet(wallet string, limit int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	if err := db.Conn.Where("wallet = ?", wallet).Order("created_at DESC").Limit(limit).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txs, nil
}

func (db *PostgresDB) ListEventPurchases(eventID string, limit int) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	if err := db.Conn.Where("kind = ? AND ref_id = ?", models.KindPurchase, eventID).
		Order("created_at DESC").Limit(limit).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to list event purchases: %w", err)
	}
	return txs, nil
}

// PurchaseTickets runs the quota increment and the per-ticket inserts in a
// single database transaction. The increment is conditional on
// sold_tickets + quantity <= total_tickets, so concurrent purchases
// serialize on the row and oversell is impossible; a guard failure aborts
// before any rows exist.
func (db *PostgresDB) PurchaseTickets(eventID string, quantity int, rows []*models.Transaction) error {
	return withConflictRetry(func() error {
		return db.purchaseTickets(eventID, quantity, rows)
	})
}

func (db *PostgresDB) purchaseTickets(eventID string, quantity int, rows []*models.Transaction) error {
	return db.Conn.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Event{}).
			Where("id = ? AND sold_tickets + ? <= total_tickets", eventID, quantity).
			UpdateColumn("sold_tickets", gorm.Expr("sold_tickets + ?", quantity))
		if res.Error != nil {
			return fmt.Errorf("failed to increment sold tickets: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var event models.Event
			if err := tx.Where("id = ?", eventID).First(&event).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrEventNotFound
				}
				return fmt.Errorf("failed to re-read event: %w", err)
			}
			if event.Remaining() <= 0 {
				return models.ErrSoldOut
			}
			return models.ErrQuantityExceedsRemaining
		}

		if err := tx.Create(rows).Error; err != nil {
			return fmt.Errorf("failed to insert ticket rows: %w", err)
		}
		return nil
	})
}

// MarkScanned performs the conditional scanned=false -> true update. Two
// concurrent scans of the same ticket race on this single statement and
// exactly one observes RowsAffected == 1.
func (db *PostgresDB) MarkScanned(ticketID, promoterWallet string, at time.Time) (*models.Transaction, bool, error) {
	var res *gorm.DB
	err := withConflictRetry(func() error {
		res = db.Conn.Model(&models.Transaction{}).
			Where("id = ? AND scanned = ?", ticketID, false).
			Updates(map[string]interface{}{
				"scanned":    true,
				"scanned_at": at,
				"scanned_by": promoterWallet,
			})
		return res.Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark ticket scanned: %w", err)
	}

	tx, err := db.GetTransaction(ticketID)
	if err != nil {
		return nil, false, err
	}
	return tx, res.RowsAffected == 1, nil
}

func (db *PostgresDB) EnsureUser(wallet string) (*models.User, error) {
	var user models.User
	err := db.Conn.Where("wallet_address = ?", wallet).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user = models.User{WalletAddress: wallet, Role: models.RoleCustomer}
	// Concurrent first-touch requests may race on the insert; the loser
	// re-reads the winner's row.
	if err := db.Conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := db.Conn.Where("wallet_address = ?", wallet).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to re-read user: %w", err)
	}
	return &user, nil
}

func (db *PostgresDB) UpdateUserRole(wallet, role string) error {
	if err := db.Conn.Model(&models.User{}).Where("wallet_address = ?", wallet).Update("role", role).Error; err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return nil
}

func (db *PostgresDB) IsAdmin(address string) (bool, error) {
	var count int64
	if err := db.Conn.Model(&models.Admin{}).Where("address = ?", address).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check admin: %w", err)
	}
	return count > 0, nil
}

func (db *PostgresDB) UpsertAdmin(address string, note *string) error {
	admin := models.Admin{Address: address, Note: note}
	if err := db.Conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "address"}},
		DoUpdates: clause.AssignmentColumns([]string{"note"}),
	}).Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to upsert admin: %w", err)
	}
	return nil
}

func (db *PostgresDB) RemoveAdmin(address string) error {
	if err := db.Conn.Where("address = ?", address).Delete(&models.Admin{}).Error; err != nil {
		return fmt.Errorf("failed to remove admin: %w", err)
	}
	return nil
}
