// Package keys models the API credential provider as an explicit
// dependency so the generation client can run against a fake in tests.
package keys

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrNoKey is returned when no credential can be obtained at all.
var ErrNoKey = errors.New("no API key available")

// Provider exposes credential selection state. Selected returns the current
// credential, Select acquires one (prompting where the implementation is
// interactive), Reset invalidates the current selection so the next Select
// acquires a fresh one.
type Provider interface {
	HasSelected() bool
	Selected() (string, error)
	Select(ctx context.Context) (string, error)
	Reset()

	// All returns every configured credential, for multi-key retry.
	All() []string
}

// EnvProvider rotates over the keys configured in the environment. Reset
// advances to the next key, which stands in for the interactive re-prompt
// of the studio client.
type EnvProvider struct {
	mu       sync.Mutex
	keys     []string
	index    int
	selected bool
}

func NewEnvProvider(apiKeys []string) *EnvProvider {
	return &EnvProvider{keys: apiKeys}
}

func (p *EnvProvider) HasSelected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selected && len(p.keys) > 0
}

func (p *EnvProvider) Selected() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.selected || len(p.keys) == 0 {
		return "", ErrNoKey
	}
	return p.keys[p.index%len(p.keys)], nil
}

func (p *EnvProvider) Select(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", ErrNoKey
	}

	p.selected = true
	key := p.keys[p.index%len(p.keys)]
	log.Printf("🔑 API key #%d/%d selected", p.index%len(p.keys)+1, len(p.keys))
	return key, nil
}

func (p *EnvProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.selected = false
	if len(p.keys) > 0 {
		p.index = (p.index + 1) % len(p.keys)
		log.Printf("♻️  API key invalidated, next selection uses key #%d/%d", p.index+1, len(p.keys))
	}
}

func (p *EnvProvider) All() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}
