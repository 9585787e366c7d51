package api

import (
	"net/http"
)

type mineRequest struct {
	Blocks uint64 `json:"blocks"`
}

// BlockResponse carries the block a simulated transaction landed in, or the new head.
type BlockResponse struct {
	Block uint64 `json:"block"`
}

func (h *handler) mine(w http.ResponseWriter, r *http.Request) {
	var req mineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Blocks == 0 {
		writeError(w, r, badRequest("blocks must be positive"))
		return
	}

	height, err := h.svc.Mine(r.Context(), req.Blocks)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BlockResponse{Block: height})
}

func (h *handler) mintLP(w http.ResponseWriter, r *http.Request) {
	account, amount, err := decodeAmountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	block, err := h.svc.MintLP(r.Context(), account, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BlockResponse{Block: block})
}

func (h *handler) approveLP(w http.ResponseWriter, r *http.Request) {
	account, amount, err := decodeAmountRequest(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	block, err := h.svc.ApproveLP(r.Context(), account, amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BlockResponse{Block: block})
}

func (h *handler) balances(w http.ResponseWriter, r *http.Request) {
	account, err := accountParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Balances(account))
}
