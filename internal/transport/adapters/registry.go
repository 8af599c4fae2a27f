package adapters

import (
	msgtemplatedomain "github.com/smallbiznis/kolekta/internal/messagetemplate/domain"
	"github.com/smallbiznis/kolekta/internal/transport/domain"
)

// Registry resolves the transport for a channel. Channels without a
// configured transport resolve to ErrUnsupportedChannel at dispatch time.
type Registry struct {
	transports map[msgtemplatedomain.Channel]domain.Transport
}

func NewRegistry(transports ...domain.Transport) *Registry {
	registry := &Registry{
		transports: make(map[msgtemplatedomain.Channel]domain.Transport, len(transports)),
	}
	for _, t := range transports {
		if t == nil {
			continue
		}
		registry.transports[t.Channel()] = t
	}
	return registry
}

func (r *Registry) Get(channel msgtemplatedomain.Channel) (domain.Transport, error) {
	if r == nil {
		return nil, domain.ErrUnsupportedChannel
	}
	transport, ok := r.transports[channel]
	if !ok {
		return nil, domain.ErrUnsupportedChannel
	}
	return transport, nil
}
