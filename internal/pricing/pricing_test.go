package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

func newQuoteServer(t *testing.T, body string, status int, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestService(t *testing.T, quoteURL string, cacheTTL time.Duration) *Service {
	t.Helper()
	log, err := logger.NewLogger(true)
	require.NoError(t, err)
	return NewService(quoteURL, cacheTTL, log)
}

const quoteBody = `{"polygon-ecosystem-token":{"idr":3000}}`

func TestPolIDRRate(t *testing.T) {
	srv := newQuoteServer(t, quoteBody, http.StatusOK, nil)
	svc := newTestService(t, srv.URL, time.Minute)

	rate, err := svc.PolIDRRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3000", rate.String())
}

func TestPolIDRRate_CacheHitsUpstreamOnce(t *testing.T) {
	var hits atomic.Int64
	srv := newQuoteServer(t, quoteBody, http.StatusOK, &hits)
	svc := newTestService(t, srv.URL, time.Minute)

	for i := 0; i < 5; i++ {
		_, err := svc.PolIDRRate(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), hits.Load())
}

func TestPolIDRRate_UpstreamFailure(t *testing.T) {
	srv := newQuoteServer(t, `{"error":"rate limited"}`, http.StatusTooManyRequests, nil)
	svc := newTestService(t, srv.URL, time.Minute)

	_, err := svc.PolIDRRate(context.Background())
	assert.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestPolIDRRate_BadRate(t *testing.T) {
	srv := newQuoteServer(t, `{"polygon-ecosystem-token":{"idr":0}}`, http.StatusOK, nil)
	svc := newTestService(t, srv.URL, time.Minute)

	_, err := svc.PolIDRRate(context.Background())
	assert.ErrorIs(t, err, ErrPriceUnavailable)
}

func TestIDRToWei(t *testing.T) {
	srv := newQuoteServer(t, quoteBody, http.StatusOK, nil)
	svc := newTestService(t, srv.URL, time.Minute)

	// 9000 IDR at 3000 IDR/POL is exactly 3 POL
	wei, rate, err := svc.IDRToWei(context.Background(), 9000)
	require.NoError(t, err)
	assert.Equal(t, "3000", rate.String())
	assert.Equal(t, "3000000000000000000", wei.String())
}

func TestIDRToWei_Fractional(t *testing.T) {
	srv := newQuoteServer(t, quoteBody, http.StatusOK, nil)
	svc := newTestService(t, srv.URL, time.Minute)

	// 1000 IDR at 3000 IDR/POL is 1/3 POL, rounded to integer wei
	wei, _, err := svc.IDRToWei(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, "333333333333333333", wei.String())
}

func TestIDRToWei_InvalidAmount(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:0", time.Minute)

	_, _, err := svc.IDRToWei(context.Background(), 0)
	assert.Error(t, err)
	_, _, err = svc.IDRToWei(context.Background(), -100)
	assert.Error(t, err)
}
