package handlers

import (
	"net/http"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/tracing"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	SecretKey   string
	ServiceKey  string
	CORSOrigins []string
	ServiceName string

	TransferLimit   int
	WithdrawalLimit int
	LimitWindow     time.Duration

	ClientRPS   float64
	ClientBurst int

	Metrics *metrics.Metrics
}

func NewRouter(handler *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging(cfg.Metrics))
	r.Use(tracing.Middleware(cfg.ServiceName))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.IdempotencyKeyHeader, middleware.ServiceKeyHeader},
		ExposedHeaders:   []string{"Retry-After", middleware.RequestIDHeader, middleware.ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.WithGzip())

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "not found")
	})

	r.Get("/healthz", handler.Healthz)
	r.Get("/readyz", handler.Readyz)

	clients := middleware.NewClientLimiter(rate.Limit(cfg.ClientRPS), cfg.ClientBurst)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(cfg.SecretKey))
		r.Use(middleware.RateLimitMiddleware(clients))

		r.Get("/balance", handler.GetBalance)
		r.Get("/limits", handler.GetLimits)
		r.Get("/deposits", handler.GetDeposits)

		r.Get("/transfer", handler.ListTransfers)
		r.With(
			middleware.OperationLimit(handler.guardService, "transfer", cfg.TransferLimit, cfg.LimitWindow),
			middleware.Idempotency(handler.guardService, "transfer"),
		).Post("/transfer", handler.CreateTransfer)

		r.Get("/withdraw", handler.ListWithdrawals)
		r.With(
			middleware.OperationLimit(handler.guardService, "withdraw", cfg.WithdrawalLimit, cfg.LimitWindow),
			middleware.Idempotency(handler.guardService, "withdraw"),
		).Post("/withdraw", handler.CreateWithdrawal)

		r.Route("/resources", func(r chi.Router) {
			r.Post("/", handler.CreateResource)
			r.Get("/{id}", handler.GetResource)
			r.Post("/{id}/activate", handler.ActivateResource)
			r.Post("/{id}/cancel", handler.CancelResource)
			r.Post("/{id}/complete", handler.CompleteResource)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(handler.RequireAdmin)

			r.Post("/process-transaction", handler.ProcessTransaction)
			r.Get("/withdrawals", handler.ListPendingWithdrawals)
			r.Post("/giveaways/status", handler.SetGiveawayStatus)
			r.Post("/giveaways/winner", handler.PickWinner)
			r.Post("/giveaways/repick", handler.RepickWinner)
			r.Post("/giveaways/complete", handler.CompleteGiveaway)
			r.Post("/ledger/reverse", handler.ReverseEntry)
			r.Post("/reconcile", handler.Reconcile)
		})
	})

	r.With(middleware.ServiceKeyMiddleware(cfg.ServiceKey)).Post("/rpc/{name}", handler.RPC)

	return r
}
