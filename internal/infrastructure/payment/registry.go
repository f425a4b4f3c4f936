package payment

import (
	"sync"

	"github.com/smartstore/backend/internal/domain/payment"
)

// Registry holds the configured gateway adapters keyed by provider
type Registry struct {
	mu       sync.RWMutex
	gateways map[payment.Provider]payment.Gateway
}

// NewRegistry creates an empty gateway registry
func NewRegistry() *Registry {
	return &Registry{gateways: make(map[payment.Provider]payment.Gateway)}
}

// Register adds a gateway; later registrations for a provider win
func (r *Registry) Register(g payment.Gateway) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[g.Provider()] = g
}

// Resolve returns the gateway for a provider
func (r *Registry) Resolve(provider payment.Provider) (payment.Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gateways[provider]
	if !ok {
		return nil, payment.ErrGatewayUnavailable
	}
	return g, nil
}
