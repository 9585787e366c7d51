package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
)

func NewRouter(cfg *config.ServerConfig, svc LedgerService) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)
	r.Use(metricsMiddleware)

	mutating := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit > 0 {
		mutating = RateLimitMiddleware(NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst))
	}

	r.Get("/healthcheck", h.healthcheck)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mutating)
			r.Post("/deposit", h.deposit)
			r.Post("/withdraw", h.withdraw)
			r.Post("/claim", h.claim)
			r.Post("/distribute", h.distributeAll)
			r.Post("/distribute/{account}", h.distribute)
		})

		r.Get("/pool", h.pool)
		r.Get("/accounts", h.storedAccounts)
		r.Get("/accounts/{account}", h.account)
		r.Get("/accounts/{account}/pending-rewards", h.pendingRewards)
		r.Get("/accounts/{account}/staking-balance", h.stakingBalance)
		r.Get("/accounts/{account}/checkpoint", h.checkpoint)
		r.Get("/accounts/{account}/events", h.events)

		if svc.Simulated() {
			r.Route("/sim", func(r chi.Router) {
				r.Use(mutating)
				r.Post("/mine", h.mine)
				r.Post("/lp/mint", h.mintLP)
				r.Post("/lp/approve", h.approveLP)
				r.Get("/balances/{account}", h.balances)
			})
		}
	})

	return r
}
