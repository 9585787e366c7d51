package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/services"
	"github.com/tokenfarm-io/staking-rewards-ledger/pkg"
)

// maxBodyBytes bounds request bodies, every payload is a handful of fields
const maxBodyBytes = 1 << 16

type handler struct {
	svc LedgerService
}

type accountRequest struct {
	Account string `json:"account"`
}

type amountRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type PoolResponse struct {
	Pool         ledger.PoolState   `json:"pool"`
	Params       ledger.Params      `json:"params"`
	Stats        services.PoolStats `json:"stats"`
	CurrentBlock uint64             `json:"current_block"`
}

type AmountResponse struct {
	Account string      `json:"account"`
	Amount  sdkmath.Int `json:"amount"`
}

type AccountsResponse struct {
	Accounts      []*model.LedgerAccountDocument `json:"accounts"`
	PaginationKey string                         `json:"pagination_key"`
}

func (h *handler) healthcheck(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "unhealthy", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) deposit(w http.ResponseWriter, r *http.Request) {
	account, amount, err := decodeAmountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.svc.Deposit(r.Context(), account, amount)
	writeReceipt(w, r, receipt, err)
}

func (h *handler) withdraw(w http.ResponseWriter, r *http.Request) {
	account, err := decodeAccountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.svc.Withdraw(r.Context(), account)
	writeReceipt(w, r, receipt, err)
}

func (h *handler) claim(w http.ResponseWriter, r *http.Request) {
	account, err := decodeAccountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.svc.ClaimRewards(r.Context(), account)
	writeReceipt(w, r, receipt, err)
}

func (h *handler) distributeAll(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.svc.DistributeRewardsAll(r.Context())
	writeReceipt(w, r, receipt, err)
}

func (h *handler) distribute(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	receipt, err := h.svc.DistributeRewards(r.Context(), account)
	writeReceipt(w, r, receipt, err)
}

func (h *handler) pool(w http.ResponseWriter, r *http.Request) {
	block, err := h.svc.CurrentBlock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PoolResponse{
		Pool:         h.svc.Pool(),
		Params:       h.svc.Params(),
		Stats:        h.svc.Stats(),
		CurrentBlock: block,
	})
}

func (h *handler) account(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	acc, ok := h.svc.Account(account)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: fmt.Sprintf("account %s never deposited", account.Hex()),
		})
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (h *handler) pendingRewards(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AmountResponse{Account: account.Hex(), Amount: h.svc.PendingRewards(account)})
}

func (h *handler) stakingBalance(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AmountResponse{Account: account.Hex(), Amount: h.svc.StakingBalance(account)})
}

func (h *handler) checkpoint(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Checkpoints(account))
}

func (h *handler) storedAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, next, err := h.svc.StoredAccounts(r.Context(), r.URL.Query().Get("pagination_key"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AccountsResponse{Accounts: accounts, PaginationKey: next})
}

func (h *handler) events(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || limit <= 0 {
			writeError(w, r, badRequest("limit must be a positive integer"))
			return
		}
	}

	events, err := h.svc.Events(r.Context(), account, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func writeReceipt(w http.ResponseWriter, r *http.Request, receipt *ledger.Receipt, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

func accountParam(r *http.Request) (common.Address, error) {
	return parseAccount(chi.URLParam(r, "account"))
}

func parseAccount(raw string) (common.Address, error) {
	addr, err := pkg.ParseAddress(raw)
	if err != nil {
		return common.Address{}, badRequest(err.Error())
	}
	return addr, nil
}

// parseAmount accepts base-10 integers only, the ledger rejects non-positive ones itself.
func parseAmount(raw string) (sdkmath.Int, error) {
	amount, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.Int{}, badRequest(fmt.Sprintf("invalid amount %q", raw))
	}
	return amount, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func decodeAccountRequest(r *http.Request) (common.Address, error) {
	var req accountRequest
	if err := decodeJSON(r, &req); err != nil {
		return common.Address{}, err
	}
	return parseAccount(req.Account)
}

func decodeAmountRequest(r *http.Request) (common.Address, sdkmath.Int, error) {
	var req amountRequest
	if err := decodeJSON(r, &req); err != nil {
		return common.Address{}, sdkmath.Int{}, err
	}

	account, err := parseAccount(req.Account)
	if err != nil {
		return common.Address{}, sdkmath.Int{}, err
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return common.Address{}, sdkmath.Int{}, err
	}
	return account, amount, nil
}
