package handlers

import (
	"context"

	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Dependencies struct {
	Balance     service.BalanceService
	Wallets     service.WalletService
	Transfers   service.TransferService
	Withdrawals service.WithdrawalService
	Escrow      service.EscrowService
	Guard       service.GuardService
	Admins      service.AdminResolver
	Passphrase  service.PassphraseChecker
	Publisher   notify.Publisher
	DB          Pinger
}

type Handler struct {
	balanceService    service.BalanceService
	walletService     service.WalletService
	transferService   service.TransferService
	withdrawalService service.WithdrawalService
	escrowService     service.EscrowService
	guardService      service.GuardService
	admins            service.AdminResolver
	passphrase        service.PassphraseChecker
	publisher         notify.Publisher
	db                Pinger
}

func NewHandler(deps Dependencies) *Handler {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &Handler{
		balanceService:    deps.Balance,
		walletService:     deps.Wallets,
		transferService:   deps.Transfers,
		withdrawalService: deps.Withdrawals,
		escrowService:     deps.Escrow,
		guardService:      deps.Guard,
		admins:            deps.Admins,
		passphrase:        deps.Passphrase,
		publisher:         publisher,
		db:                deps.DB,
	}
}

// publish sends an event after the ledger change committed. Failures are
// only logged.
func (h *Handler) publish(ctx context.Context, eventType, userID string, data any) {
	if h.publisher == nil {
		return
	}
	event := notify.NewEvent(eventType, middleware.GetRequestID(ctx), userID, data)
	if err := h.publisher.Publish(ctx, event); err != nil {
		logger.Log.Warn("failed to publish event", zap.String("event_type", eventType), zap.Error(err))
	}
}
