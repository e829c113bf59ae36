package tix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/internal/repository"
	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

const (
	promoterWallet = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	customerWallet = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	adminWallet    = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// fakeChain is a canned ChainClient for role tests.
type fakeChain struct {
	promoters map[string]bool
	err       error
}

func (f *fakeChain) IsPromoter(address string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.promoters[address], nil
}

func (f *fakeChain) Close() error { return nil }

func newTestTix(t *testing.T, chain models.ChainClient) (*Tix, *repository.MemoryDB) {
	t.Helper()
	log, err := logger.NewLogger(true)
	require.NoError(t, err)
	db := repository.NewMemoryDB()
	return NewTix(db, chain, nil, nil, log), db
}

func seedEvent(t *testing.T, tixApp *Tix, priceIDR int64, totalTickets int) *models.Event {
	t.Helper()
	event, err := tixApp.CreateEvent(promoterWallet, &models.Event{
		Title:        "Test Night",
		DateISO:      "2026-10-01T19:00:00Z",
		Venue:        "Warehouse 12",
		PriceIDR:     priceIDR,
		TotalTickets: totalTickets,
		Listed:       true,
	})
	require.NoError(t, err)
	return event
}

var errRPCDown = errors.New("rpc: connection refused")
