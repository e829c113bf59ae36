package http_api

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zaki4gg/asiq-tix/internal/auth"
	"github.com/Zaki4gg/asiq-tix/internal/models"
	"github.com/Zaki4gg/asiq-tix/internal/pricing"
	"github.com/Zaki4gg/asiq-tix/internal/repository"
	"github.com/Zaki4gg/asiq-tix/internal/tix"
	"github.com/Zaki4gg/asiq-tix/pkg/logger"
)

const (
	promoterWallet = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	customerWallet = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	adminWallet    = "0xcccccccccccccccccccccccccccccccccccccccc"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	server *HTTPServer
	tix    *tix.Tix
	db     *repository.MemoryDB
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log, err := logger.NewLogger(true)
	require.NoError(t, err)

	quotes := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"polygon-ecosystem-token":{"idr":3000}}`))
	}))
	t.Cleanup(quotes.Close)

	db := repository.NewMemoryDB()
	tixApp := tix.NewTix(db, nil, nil, nil, log)
	handshake := auth.NewHandshake(
		auth.NewMemoryNonceStore(time.Minute),
		auth.NewSessionIssuer("test-secret", time.Hour),
		log,
	)
	server := NewHTTPServer(tixApp, handshake, pricing.NewService(quotes.URL, time.Minute, log), 0, log)

	return &testAPI{server: server, tix: tixApp, db: db}
}

func (a *testAPI) do(t *testing.T, method, path, wallet string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if wallet != "" {
		req.Header.Set("x-wallet-address", wallet)
	}

	rec := httptest.NewRecorder()
	a.server.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func (a *testAPI) seedPromoter(t *testing.T) {
	t.Helper()
	_, err := a.tix.GrantPromoter(promoterWallet)
	require.NoError(t, err)
}

func (a *testAPI) seedAdmin(t *testing.T) {
	t.Helper()
	require.NoError(t, a.tix.AddAdmin(adminWallet, nil))
}

func (a *testAPI) seedEvent(t *testing.T, priceIDR int64, totalTickets int) *models.Event {
	t.Helper()
	event, err := a.tix.CreateEvent(promoterWallet, &models.Event{
		Title: "Test Night", PriceIDR: priceIDR, TotalTickets: totalTickets, Listed: true,
	})
	require.NoError(t, err)
	return event
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNonce_InvalidAddress(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/nonce?address=nope", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/nonce", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNonce_Issued(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/nonce?address="+customerWallet, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["nonce"])
	assert.Equal(t, float64(60), body["expires_in"])
}

func signChallenge(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func TestVerify_FullLoginFlow(t *testing.T) {
	api := newTestAPI(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	address := strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())

	rec := api.do(t, http.MethodGet, "/api/nonce?address="+address, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	nonce := decodeBody(t, rec)["nonce"].(string)

	message := fmt.Sprintf("Sign in as %s\n\nNonce: %s", address, nonce)
	rec = api.do(t, http.MethodPost, "/api/verify", "", gin.H{
		"message":   message,
		"signature": signChallenge(t, key, message),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, address, body["address"])
	token := body["token"].(string)
	require.NotEmpty(t, token)

	// The minted token authenticates /me
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meRec := httptest.NewRecorder()
	api.server.Router().ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code)
	me := decodeBody(t, meRec)
	assert.Equal(t, address, me["address"])
	assert.Equal(t, models.RoleCustomer, me["role"])

	// Replaying the same signed message fails
	rec = api.do(t, http.MethodPost, "/api/verify", "", gin.H{
		"message":   message,
		"signature": signChallenge(t, key, message),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerify_MissingFields(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/verify", "", gin.H{"message": "only a message"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe_RequiresIdentity(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEvents_ListedOnlyForAnonymous(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)
	api.seedEvent(t, 9000, 10)
	_, err := api.tix.CreateEvent(promoterWallet, &models.Event{
		Title: "Hidden", PriceIDR: 9000, TotalTickets: 10, Listed: false,
	})
	require.NoError(t, err)

	rec := api.do(t, http.MethodGet, "/api/events", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["items"], 1)

	// ?all=1 is ignored for non-admins
	rec = api.do(t, http.MethodGet, "/api/events?all=1", customerWallet, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["items"], 1)

	rec = api.do(t, http.MethodGet, "/api/events?all=1", adminWallet, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["items"], 2)
}

func TestCreateEvent_RequiresPromoter(t *testing.T) {
	api := newTestAPI(t)
	api.seedPromoter(t)

	payload := gin.H{"title": "Launch", "total_tickets": 50, "price_idr": 9000}

	rec := api.do(t, http.MethodPost, "/api/events", customerWallet, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/events", promoterWallet, payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, promoterWallet, body["promoter_wallet"])
	assert.Equal(t, float64(0), body["sold_tickets"])
}

func TestPurchaseAndScanFlow(t *testing.T) {
	api := newTestAPI(t)
	api.seedPromoter(t)
	event := api.seedEvent(t, 9000, 5)

	rec := api.do(t, http.MethodPost, "/api/purchase", customerWallet, gin.H{
		"amount": 18000,
		"ref_id": event.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, float64(2), body["quantity"])
	txs := body["txs"].([]interface{})
	require.Len(t, txs, 2)
	ticketID := txs[0].(map[string]interface{})["id"].(string)

	// First scan succeeds
	rec = api.do(t, http.MethodPost, "/api/tickets/scan", promoterWallet, gin.H{"tx_id": ticketID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "scanned", decodeBody(t, rec)["status"])

	// Second scan conflicts with the original scan's details
	rec = api.do(t, http.MethodPost, "/api/tickets/scan", promoterWallet, gin.H{"tx_id": ticketID})
	require.Equal(t, http.StatusConflict, rec.Code)
	conflict := decodeBody(t, rec)
	assert.Equal(t, "already_scanned", conflict["status"])
	assert.Equal(t, false, conflict["ok"])

	// Customers cannot reach the scan endpoint at all
	rec = api.do(t, http.MethodPost, "/api/tickets/scan", customerWallet, gin.H{"tx_id": ticketID})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPurchase_SoldOutMapsTo400(t *testing.T) {
	api := newTestAPI(t)
	api.seedPromoter(t)
	event := api.seedEvent(t, 9000, 1)

	rec := api.do(t, http.MethodPost, "/api/purchase", customerWallet, gin.H{"amount": 9000, "ref_id": event.ID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/purchase", customerWallet, gin.H{"amount": 9000, "ref_id": event.ID})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "sold_out", decodeBody(t, rec)["error"])
}

func TestVerifyTicket_WrongEventGuard(t *testing.T) {
	api := newTestAPI(t)
	api.seedPromoter(t)
	event := api.seedEvent(t, 9000, 5)
	other := api.seedEvent(t, 5000, 5)

	rec := api.do(t, http.MethodPost, "/api/purchase", customerWallet, gin.H{"amount": 9000, "ref_id": event.ID})
	require.Equal(t, http.StatusOK, rec.Code)
	ticketID := decodeBody(t, rec)["txs"].([]interface{})[0].(map[string]interface{})["id"].(string)

	rec = api.do(t, http.MethodGet, "/api/tickets/verify/"+ticketID, promoterWallet, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/tickets/verify/"+ticketID+"?eventId="+other.ID, promoterWallet, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden_wrong_event", decodeBody(t, rec)["error"])
}

func TestTopupAndTransactions(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/topup", customerWallet, gin.H{"amount": 50000})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/transactions", customerWallet, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["items"], 1)

	rec = api.do(t, http.MethodGet, "/api/transactions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)

	// Non-admins are rejected
	rec := api.do(t, http.MethodPost, "/api/admins", customerWallet, gin.H{"address": promoterWallet})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/admins", adminWallet, gin.H{"address": promoterWallet})
	require.Equal(t, http.StatusOK, rec.Code)

	// The new admin cannot be removed by themselves
	rec = api.do(t, http.MethodDelete, "/api/admins/"+adminWallet, adminWallet, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/admins/"+promoterWallet, adminWallet, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGrantPromoter(t *testing.T) {
	api := newTestAPI(t)
	api.seedAdmin(t)

	rec := api.do(t, http.MethodPost, "/api/promoters", adminWallet, gin.H{"address": promoterWallet})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/me", promoterWallet, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RolePromoter, decodeBody(t, rec)["role"])
}

func TestPriceEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/price/pol", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "coingecko", decodeBody(t, rec)["source"])

	rec = api.do(t, http.MethodPost, "/api/price/idr-to-wei", "", gin.H{"amount_idr": 9000})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "3000000000000000000", body["price_wei"])

	rec = api.do(t, http.MethodPost, "/api/price/idr-to-wei", "", gin.H{"amount_idr": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
