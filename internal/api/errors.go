package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/asset"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/ledger"
)

// ErrorResponse is the body of every non 2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// requestError is returned for malformed input before the service is called.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

type errorMapping struct {
	target error
	status int
	code   string
}

// checked in order, the first match wins
var errorMappings = []errorMapping{
	{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{asset.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrNothingStaked, http.StatusConflict, "nothing_staked"},
	{ledger.ErrNoRewards, http.StatusConflict, "no_rewards"},
	{asset.ErrInsufficientApproval, http.StatusUnprocessableEntity, "insufficient_approval"},
	{asset.ErrInsufficientBalance, http.StatusUnprocessableEntity, "insufficient_balance"},
	{asset.ErrUnauthorizedMinter, http.StatusUnprocessableEntity, "unauthorized_minter"},
	{ledger.ErrBlockRegression, http.StatusServiceUnavailable, "block_regression"},
}

// statusOf maps an error to its HTTP status and error code.
func statusOf(err error) (int, string) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, "invalid_request"
	}
	if db.IsInvalidPaginationTokenError(err) {
		return http.StatusBadRequest, "invalid_pagination_token"
	}
	if db.IsNotFoundError(err) {
		return http.StatusNotFound, "not_found"
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}

	return http.StatusInternalServerError, "internal_error"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusOf(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		message = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
