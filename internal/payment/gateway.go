package payment

import (
	"context"
	"math/rand"
	"sync"
)

// Gateway decides whether a settle attempt succeeds. The simulated
// implementation stands in for a real payment provider; swapping it out
// does not touch the registry or the strategies.
type Gateway interface {
	Settle(ctx context.Context, method Method, amount float64) (bool, error)
}

// Default per-method success rates for the simulated gateway.
var defaultSuccessRates = map[Method]float64{
	MethodCard:         0.90,
	MethodBankTransfer: 0.95,
	MethodEWallet:      0.98,
}

// SimulatedGateway approves or declines by coin flip with a per-method
// success probability.
type SimulatedGateway struct {
	mu    sync.Mutex
	rand  *rand.Rand
	rates map[Method]float64
}

// NewSimulatedGateway builds a gateway with the default rates; overrides
// replaces the rate for any method present in it.
func NewSimulatedGateway(seed int64, overrides map[Method]float64) *SimulatedGateway {
	rates := make(map[Method]float64, len(defaultSuccessRates))
	for m, p := range defaultSuccessRates {
		rates[m] = p
	}
	for m, p := range overrides {
		rates[m] = p
	}
	return &SimulatedGateway{
		rand:  rand.New(rand.NewSource(seed)),
		rates: rates,
	}
}

func (g *SimulatedGateway) Settle(_ context.Context, method Method, _ float64) (bool, error) {
	rate, ok := g.rates[method]
	if !ok {
		return false, nil
	}

	g.mu.Lock()
	roll := g.rand.Float64()
	g.mu.Unlock()

	return roll < rate, nil
}
