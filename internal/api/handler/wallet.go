package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ayo6706/ledger-migration/internal/repository"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WalletHandler struct {
	queries *repository.Queries
}

func NewWalletHandler(queries *repository.Queries) *WalletHandler {
	return &WalletHandler{queries: queries}
}

type walletBalancesResponse struct {
	WalletID int64             `json:"wallet_id"`
	Balances []balanceResponse `json:"balances"`
}

type balanceResponse struct {
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// Balances returns the per-currency credit balances of a wallet.
func (h *WalletHandler) Balances(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || walletID <= 0 {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-wallet-id", "Invalid wallet ID")
		return
	}

	balances, err := h.queries.WalletBalances(r.Context(), walletID)
	if err != nil {
		if status, problemType, message, ok := mapDBError(err); ok {
			RespondError(w, r, status, problemType, message)
			return
		}
		zap.L().Error("wallet balances read failed", zap.Error(err), zap.Int64("wallet_id", walletID))
		RespondError(w, r, http.StatusInternalServerError, "wallet/balance-read-failed", "Failed to read wallet balances")
		return
	}

	resp := walletBalancesResponse{WalletID: walletID, Balances: make([]balanceResponse, 0, len(balances))}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, balanceResponse{Currency: b.Currency, Balance: b.Balance})
	}
	RespondJSON(w, http.StatusOK, resp)
}

// CurrencyBalance returns the balance of a wallet in a single currency.
func (h *WalletHandler) CurrencyBalance(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || walletID <= 0 {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-wallet-id", "Invalid wallet ID")
		return
	}

	currency := strings.ToUpper(chi.URLParam(r, "currency"))
	if len(currency) < 3 || len(currency) > 4 {
		RespondError(w, r, http.StatusBadRequest, "request/invalid-currency", "Invalid currency code")
		return
	}

	balance, err := h.queries.WalletCurrencyBalance(r.Context(), currency, walletID)
	if err != nil {
		zap.L().Error("wallet currency balance read failed", zap.Error(err),
			zap.Int64("wallet_id", walletID), zap.String("currency", currency))
		RespondError(w, r, http.StatusInternalServerError, "wallet/balance-read-failed", "Failed to read wallet balance")
		return
	}

	RespondJSON(w, http.StatusOK, balanceResponse{Currency: currency, Balance: balance})
}
