package parser

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"declarant/internal/config"
	"declarant/internal/domain"
	"declarant/internal/port"
)

// ProviderFactory creates an ExtractionOracle from the parser config.
// Factories read the credential once and fail with domain.ErrCredentialMissing
// when it is absent.
type ProviderFactory func(cfg *config.ParserConfig) (port.ExtractionOracle, error)

// registry of oracle provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers an oracle provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// Providers lists the registered provider names.
func Providers() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewOracle creates an ExtractionOracle using the factory registered for cfg.Provider.
func NewOracle(cfg *config.ParserConfig) (port.ExtractionOracle, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// unavailableOracle fails every call without touching the network.
type unavailableOracle struct {
	err error
}

// Unavailable returns an oracle whose every Generate fails with an
// OracleUnavailableError wrapping cause. It stands in when the real provider
// could not be constructed, so the rest of the service still runs.
func Unavailable(cause error) port.ExtractionOracle {
	return &unavailableOracle{err: cause}
}

func (u *unavailableOracle) Generate(_ context.Context, _ port.OracleRequest) (*port.OracleResponse, error) {
	return nil, domain.NewOracleUnavailable("oracle not configured", u.err)
}

// IsConfigured reports whether o is a real provider rather than the
// Unavailable stand-in.
func IsConfigured(o port.ExtractionOracle) bool {
	_, stub := o.(*unavailableOracle)
	return !stub
}
