package config

import "sync/atomic"

// ProviderCredentials is an immutable snapshot of the provider key/host pair.
type ProviderCredentials struct {
	APIKey string
	Host   string
}

// Credentials holds the provider credentials that can change while the process runs.
// Readers take a snapshot with Current; a request built from a snapshot is never
// affected by a later Update.
type Credentials struct {
	current atomic.Pointer[ProviderCredentials]
}

// NewCredentials creates a credential store seeded with the given values.
// An empty host falls back to DefaultProviderHost.
func NewCredentials(apiKey, host string) *Credentials {
	c := &Credentials{}
	c.Update(apiKey, host)
	return c
}

// Update replaces the credentials used by subsequent requests.
func (c *Credentials) Update(apiKey, host string) {
	if host == "" {
		host = DefaultProviderHost
	}
	c.current.Store(&ProviderCredentials{APIKey: apiKey, Host: host})
}

// Current returns the credentials in effect right now.
func (c *Credentials) Current() ProviderCredentials {
	if p := c.current.Load(); p != nil {
		return *p
	}
	return ProviderCredentials{Host: DefaultProviderHost}
}
