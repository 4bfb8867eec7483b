package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/example/bank-ledger/internal/ledger"
	"github.com/example/bank-ledger/internal/security"
)

// Dependencies wires the router to its collaborators. The ledger
// interfaces are deliberately narrow so tests can substitute fakes.
type Dependencies struct {
	Logger *slog.Logger

	LedgerReader interface {
		GetAccount(ctx context.Context, id string) (ledger.Account, error)
		ListAccounts(ctx context.Context) ([]ledger.Account, error)
		Transactions(ctx context.Context, accountID string) ([]ledger.LogEntry, error)
		AllTransactions(ctx context.Context) ([]ledger.LogEntry, error)
	}
	LedgerWriter interface {
		CreateAccount(ctx context.Context, name string, initialBalance int64) (ledger.Account, error)
		Deposit(ctx context.Context, accountID string, amount int64) (ledger.LogEntry, error)
		Withdraw(ctx context.Context, accountID string, amount int64) (ledger.LogEntry, error)
		Transfer(ctx context.Context, fromID, toID string, amount int64) (ledger.LogEntry, error)
	}

	RateLimiter  *security.TokenBucket
	IPAllowlist  []*net.IPNet
	MaxBodyBytes int64
}

// NewRouter builds the HTTP boundary over the ledger core.
func NewRouter(deps Dependencies) (http.Handler, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	createAccountV, err := security.NewJSONSchemaValidator(createAccountSchema)
	if err != nil {
		return nil, err
	}
	amountV, err := security.NewJSONSchemaValidator(amountSchema)
	if err != nil {
		return nil, err
	}
	transferV, err := security.NewJSONSchemaValidator(transferSchema)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(security.CorrelationID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(security.BodySizeLimit(deps.MaxBodyBytes))
	r.Use(security.IPAllowlist(deps.IPAllowlist))
	if deps.RateLimiter != nil {
		r.Use(security.RateLimitMiddleware(deps.RateLimiter, rateLimitKeyByIP))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", handleListAccounts(deps))
			r.With(createAccountV.Middleware).Post("/", handleCreateAccount(deps))

			r.Route("/{account_id}", func(r chi.Router) {
				r.Get("/", handleGetAccount(deps))
				r.With(amountV.Middleware).Post("/deposit", handleDeposit(deps))
				r.With(amountV.Middleware).Post("/withdraw", handleWithdraw(deps))
				r.Get("/transactions", handleAccountTransactions(deps))
			})
		})

		r.With(transferV.Middleware).Post("/transfers", handleTransfer(deps))
		r.Get("/transactions", handleAllTransactions(deps))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		security.WriteJSONError(w, r, http.StatusNotFound, "not_found")
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		security.WriteJSONError(w, r, http.StatusMethodNotAllowed, "method_not_allowed")
	})

	return r, nil
}

func rateLimitKeyByIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return ""
	}
	return "ip:" + host
}
