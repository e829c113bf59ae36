package events

import (
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/Zaki4gg/asiq-tix/internal/models"
)

const (
	// TransactionTopic carries every new ledger entry; wallet pages
	// subscribe to it to refresh live.
	TransactionTopic = "tix.transactions"

	// ScanTopic carries ticket redemptions; scanner screens subscribe to
	// it.
	ScanTopic = "tix.scans"
)

// WatermillPublisher implements models.TxPublisher on a watermill
// message.Publisher.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher wraps an existing watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) *WatermillPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// NewRedisStreamPublisher builds a publisher backed by redis streams so
// multiple server instances share one bus.
func NewRedisStreamPublisher(client redis.UniversalClient) (*WatermillPublisher, error) {
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: client},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis stream publisher: %w", err)
	}
	return &WatermillPublisher{publisher: publisher}, nil
}

func (p *WatermillPublisher) publish(topic string, tx *models.Transaction) error {
	payload, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if err := p.publisher.Publish(topic, message.NewMessage(tx.ID, payload)); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (p *WatermillPublisher) PublishTransaction(tx *models.Transaction) error {
	return p.publish(TransactionTopic, tx)
}

func (p *WatermillPublisher) PublishScan(tx *models.Transaction) error {
	return p.publish(ScanTopic, tx)
}

func (p *WatermillPublisher) Close() error {
	return p.publisher.Close()
}
