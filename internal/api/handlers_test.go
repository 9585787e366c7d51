package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/clients/chainclient"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/services"
	"github.com/tokenfarm-io/staking-rewards-ledger/tests/mocks"
)

const (
	alice = "0x00000000000000000000000000000000000a11ce"
	bob   = "0x0000000000000000000000000000000000000b0b"
)

// checksummed renders an address the way responses and stored documents do
func checksummed(addr string) string {
	return common.HexToAddress(addr).Hex()
}

type fixture struct {
	router   http.Handler
	db       *mocks.DbInterface
	consumer *mocks.EventConsumer
}

func setup(t *testing.T, serverCfg config.ServerConfig, chain chainclient.ChainInterface) *fixture {
	t.Helper()

	cfg := &config.Config{
		Ledger: config.LedgerConfig{
			RewardPerBlock: "1000000000000000000",
			PoolAddress:    "0x0000000000000000000000000000000000000001",
			Deployer:       "0x0000000000000000000000000000000000000002",
			LPSymbol:       "LP",
			RewardSymbol:   "RWD",
		},
		Server: serverCfg,
	}

	dbClient := mocks.NewDbInterface(t)
	dbClient.On("UpsertLedgerAccounts", mock.Anything, mock.Anything).Return(nil).Maybe()
	dbClient.On("SaveLedgerEvents", mock.Anything, mock.Anything).Return(nil).Maybe()
	dbClient.On("UpsertPoolState", mock.Anything, mock.Anything).Return(nil).Maybe()
	dbClient.On("UpdateLastProcessedBlock", mock.Anything, mock.Anything).Return(nil).Maybe()

	eventConsumer := mocks.NewEventConsumer(t)
	eventConsumer.On("PushLedgerEvent", mock.Anything, mock.Anything).Return(nil).Maybe()

	srv, err := services.NewService(cfg, dbClient, chain, eventConsumer)
	require.NoError(t, err)

	return &fixture{
		router:   NewRouter(&cfg.Server, srv),
		db:       dbClient,
		consumer: eventConsumer,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func amountBody(account, amount string) string {
	return fmt.Sprintf(`{"account":%q,"amount":%q}`, account, amount)
}

func TestReferenceScenarioOverHTTP(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))

	steps := []struct {
		path string
		body string
	}{
		{"/v1/sim/lp/mint", amountBody(alice, "100")},
		{"/v1/sim/lp/mint", amountBody(bob, "300")},
		{"/v1/sim/lp/approve", amountBody(alice, "100")},
		{"/v1/deposit", amountBody(alice, "100")},
		{"/v1/sim/lp/approve", amountBody(bob, "300")},
		{"/v1/deposit", amountBody(bob, "300")},
		{"/v1/sim/mine", `{"blocks":10}`},
		{"/v1/distribute", ""},
	}
	for _, step := range steps {
		rec := f.do(t, http.MethodPost, step.path, step.body)
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", step.path, rec.Body.String())
	}

	rec := f.do(t, http.MethodGet, "/v1/accounts/"+alice+"/pending-rewards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"account":"`+checksummed(alice)+`","amount":"3250000000000000000"}`, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/accounts/"+bob+"/pending-rewards", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"8250000000000000000"`)

	rec = f.do(t, http.MethodGet, "/v1/accounts/"+alice+"/checkpoint", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"block_height":17,"total_staked_at_snapshot":"400"}`, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/v1/claim", fmt.Sprintf(`{"account":%q}`, alice))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/v1/sim/balances/"+alice, "")
	require.Equal(t, http.StatusOK, rec.Code)
	balances := decode[services.Balances](t, rec)
	assert.True(t, balances.Reward.IsPositive())
	assert.True(t, balances.LP.IsZero())

	rec = f.do(t, http.MethodGet, "/v1/pool", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pool := decode[PoolResponse](t, rec)
	assert.Equal(t, "400", pool.Pool.TotalStaked.String())
	assert.Equal(t, 2, pool.Stats.Stakers)
	assert.Equal(t, uint64(18), pool.CurrentBlock)
}

func TestErrorMapping(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))

	testCases := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed body", "/v1/deposit", `{"account":`, http.StatusBadRequest, "invalid_request"},
		{"unknown field", "/v1/withdraw", `{"account":"` + alice + `","x":1}`, http.StatusBadRequest, "invalid_request"},
		{"bad address", "/v1/withdraw", `{"account":"0x123"}`, http.StatusBadRequest, "invalid_request"},
		{"bad amount", "/v1/deposit", amountBody(alice, "1.5"), http.StatusBadRequest, "invalid_request"},
		{"zero amount", "/v1/deposit", amountBody(alice, "0"), http.StatusBadRequest, "invalid_amount"},
		{"nothing staked", "/v1/withdraw", `{"account":"` + alice + `"}`, http.StatusConflict, "nothing_staked"},
		{"no rewards", "/v1/claim", `{"account":"` + alice + `"}`, http.StatusConflict, "no_rewards"},
		{"missing approval", "/v1/deposit", amountBody(alice, "5"), http.StatusUnprocessableEntity, "insufficient_approval"},
		{"zero blocks", "/v1/sim/mine", `{"blocks":0}`, http.StatusBadRequest, "invalid_request"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, tc.path, tc.body)
			require.Equal(t, tc.status, rec.Code, rec.Body.String())

			body := decode[ErrorResponse](t, rec)
			assert.Equal(t, tc.code, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestBlockRegression(t *testing.T) {
	chain := mocks.NewChainInterface(t)
	chain.On("CurrentBlock", mock.Anything).Return(uint64(10), nil).Once()
	chain.On("CurrentBlock", mock.Anything).Return(uint64(9), nil)

	f := setup(t, config.ServerConfig{}, chain)

	// an empty distribution still moves the ledger to block 10
	rec := f.do(t, http.MethodPost, "/v1/distribute", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/v1/distribute", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "block_regression", decode[ErrorResponse](t, rec).Error)
}

func TestSimulationRoutesNeedSimulator(t *testing.T) {
	f := setup(t, config.ServerConfig{}, mocks.NewChainInterface(t))

	rec := f.do(t, http.MethodPost, "/v1/sim/mine", `{"blocks":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccount(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))

	rec := f.do(t, http.MethodGet, "/v1/accounts/"+alice, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/accounts/nope/staking-balance", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// queries on unknown accounts read as zero
	rec = f.do(t, http.MethodGet, "/v1/accounts/"+alice+"/staking-balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":"0"`)
}

func TestStoredAccounts(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))
	f.db.On("FindLedgerAccountsPage", mock.Anything, "bad").
		Return(nil, "", &db.InvalidPaginationTokenError{Message: "invalid pagination token"}).Once()

	rec := f.do(t, http.MethodGet, "/v1/accounts?pagination_key=bad", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))
	f.db.On("FindLedgerEventsByAccount", mock.Anything, checksummed(alice), int64(5)).
		Return(nil, errors.New("db down")).Once()

	rec := f.do(t, http.MethodGet, "/v1/accounts/"+alice+"/events?limit=5", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decode[ErrorResponse](t, rec).Message)

	rec = f.do(t, http.MethodGet, "/v1/accounts/"+alice+"/events?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))
	f.db.On("Ping", mock.Anything).Return(nil).Once()
	f.db.On("Ping", mock.Anything).Return(errors.New("no primary")).Once()

	rec := f.do(t, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	rec = f.do(t, http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTraceIDIsPropagated(t *testing.T) {
	f := setup(t, config.ServerConfig{}, chainclient.NewSimulator(0))

	req := httptest.NewRequest(http.MethodGet, "/v1/accounts/"+alice+"/checkpoint", nil)
	req.Header.Set(traceIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(traceIDHeader))
}
