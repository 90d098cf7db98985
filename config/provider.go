package config

import "sync/atomic"

// Provider hands out the current Config snapshot. Readers always get a
// complete, immutable view; Update swaps the whole pointer so a reload
// never exposes a half-written config.
type Provider struct {
	config atomic.Pointer[Config]
}

// NewProvider panics on a nil config. Constructing a provider without a
// config is a programming error, not a runtime condition.
func NewProvider(cfg *Config) *Provider {
	if cfg == nil {
		panic("config: NewProvider called with nil config")
	}
	p := &Provider{}
	p.config.Store(cfg)
	return p
}

func (p *Provider) Get() *Config {
	return p.config.Load()
}

func (p *Provider) Update(cfg *Config) {
	p.config.Store(cfg)
}
