package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/example/bank-ledger/internal/ledger"
	"github.com/example/bank-ledger/internal/security"
)

type createAccountRequest struct {
	Name           string `json:"name"`
	InitialBalance int64  `json:"initial_balance"`
}

type accountResponse struct {
	CorrelationID string         `json:"correlation_id"`
	Account       ledger.Account `json:"account"`
}

type listAccountsResponse struct {
	CorrelationID string           `json:"correlation_id"`
	Accounts      []ledger.Account `json:"accounts"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type transferRequest struct {
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        int64  `json:"amount"`
}

type entryResponse struct {
	CorrelationID string          `json:"correlation_id"`
	Entry         ledger.LogEntry `json:"entry"`
}

type transactionsResponse struct {
	CorrelationID string            `json:"correlation_id"`
	Transactions  []ledger.LogEntry `json:"transactions"`
}

// writeLedgerError maps the core error taxonomy onto HTTP statuses:
// structural problems and self transfers are client errors, unknown
// accounts are not found, insufficient funds is a conflict, and
// anything unexpected is an internal error.
func writeLedgerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound):
		security.WriteJSONError(w, r, http.StatusNotFound, "account_not_found")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		security.WriteJSONError(w, r, http.StatusConflict, "insufficient_funds")
	case errors.Is(err, ledger.ErrInvalidAmount):
		security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, ledger.ErrSelfTransfer):
		security.WriteJSONError(w, r, http.StatusBadRequest, "self_transfer")
	default:
		security.WriteJSONError(w, r, http.StatusInternalServerError, "internal_error")
	}
}

func handleCreateAccount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		account, err := deps.LedgerWriter.CreateAccount(r.Context(), req.Name, req.InitialBalance)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, accountResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Account:       account,
		})
	}
}

func handleGetAccount(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := deps.LedgerReader.GetAccount(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, accountResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Account:       account,
		})
	}
}

func handleListAccounts(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts, err := deps.LedgerReader.ListAccounts(r.Context())
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, listAccountsResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Accounts:      accounts,
		})
	}
}

func handleDeposit(deps Dependencies) http.HandlerFunc {
	return handleSingleAccountOp(deps, func(r *http.Request, accountID string, amount int64) (ledger.LogEntry, error) {
		return deps.LedgerWriter.Deposit(r.Context(), accountID, amount)
	})
}

func handleWithdraw(deps Dependencies) http.HandlerFunc {
	return handleSingleAccountOp(deps, func(r *http.Request, accountID string, amount int64) (ledger.LogEntry, error) {
		return deps.LedgerWriter.Withdraw(r.Context(), accountID, amount)
	})
}

func handleSingleAccountOp(deps Dependencies, op func(*http.Request, string, int64) (ledger.LogEntry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req amountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		entry, err := op(r, chi.URLParam(r, "account_id"), req.Amount)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, entryResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Entry:         entry,
		})
	}
}

func handleTransfer(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			security.WriteJSONError(w, r, http.StatusBadRequest, "invalid_json")
			return
		}

		entry, err := deps.LedgerWriter.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, entryResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Entry:         entry,
		})
	}
}

func handleAccountTransactions(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.LedgerReader.Transactions(r.Context(), chi.URLParam(r, "account_id"))
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, transactionsResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Transactions:  entries,
		})
	}
}

func handleAllTransactions(deps Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := deps.LedgerReader.AllTransactions(r.Context())
		if err != nil {
			writeLedgerError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, transactionsResponse{
			CorrelationID: security.CorrelationIDFromContext(r.Context()),
			Transactions:  entries,
		})
	}
}
