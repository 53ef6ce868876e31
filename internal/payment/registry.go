package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/fjod/go_order/internal/domain"
)

// Registry maps payment methods to strategies. It is the single source of
// truth for which method identifiers are supported. Settle attempts run
// behind a circuit breaker so a misbehaving gateway fails fast once it
// starts erroring.
type Registry struct {
	strategies map[Method]Strategy
	breaker    *gobreaker.CircuitBreaker[bool]
	logger     *slog.Logger
}

func NewRegistry(gateway Gateway, logger *slog.Logger) *Registry {
	strategies := map[Method]Strategy{
		MethodCashOnDelivery: cashOnDeliveryStrategy{},
		MethodCard:           cardStrategy{gateway: gateway},
		MethodBankTransfer:   bankTransferStrategy{gateway: gateway},
		MethodEWallet:        eWalletStrategy{gateway: gateway},
	}

	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:    "payment-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Registry{
		strategies: strategies,
		breaker:    breaker,
		logger:     logger,
	}
}

// Supported reports whether a strategy is registered for the method.
func (r *Registry) Supported(method Method) bool {
	_, ok := r.strategies[method]
	return ok
}

// Pay dispatches to the method's strategy. A false outcome is an ordinary
// payment decline; an error means the method is unknown or the gateway
// call itself failed.
func (r *Registry) Pay(ctx context.Context, order *domain.Order, method Method, details Details) (bool, error) {
	strategy, ok := r.strategies[method]
	if !ok {
		return false, ErrUnsupportedPaymentMethod
	}

	settled, err := r.breaker.Execute(func() (bool, error) {
		return strategy.Pay(ctx, order, details)
	})
	if err != nil {
		r.logger.Error("payment dispatch failed",
			"method", method.String(),
			"error", err)
		return false, err
	}

	r.logger.Info("payment attempt resolved",
		"method", method.String(),
		"settled", settled)
	return settled, nil
}
