// SPDX-License-Identifier: MPL-2.0

package hardware

import (
	"context"
	"sync"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"

	"github.com/charmbracelet/log"
)

const (
	methodFirstInstance method = iota
	methodInstances
)

type (
	method uint8

	replyKey struct {
		class  string
		method method
	}

	// Provider answers hardware queries. Replies are cached per class and
	// method for the namespace last asked about; switching namespaces drops
	// the cache. A Provider is safe for concurrent use.
	Provider struct {
		systems *cim.SystemResolver
		logger  *log.Logger

		mu      sync.Mutex
		ns      string
		replies map[replyKey]any
	}
)

// NewProvider creates a provider resolving computer systems with systems.
// A nil logger selects log.Default().
func NewProvider(systems *cim.SystemResolver, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.Default()
	}
	if systems == nil {
		systems = cim.NewSystemResolver("", logger)
	}
	return &Provider{
		systems: systems,
		logger:  logger,
		replies: make(map[replyKey]any),
	}
}

// Systems returns the computer system resolver.
func (p *Provider) Systems() *cim.SystemResolver { return p.systems }

// ComputerSystem returns the computer system instance of ns.
func (p *Provider) ComputerSystem(ctx context.Context, ns cim.Namespace) (cim.Instance, error) {
	return p.systems.ComputerSystem(ctx, ns)
}

// SingleInstance returns the first instance of class.
func (p *Provider) SingleInstance(ctx context.Context, ns cim.Namespace, class string) (cim.Instance, error) {
	v, err := p.reply(ctx, ns, class, methodFirstInstance)
	if err != nil {
		return nil, err
	}
	return v.(cim.Instance), nil
}

// AllInstances returns every instance of class.
func (p *Provider) AllInstances(ctx context.Context, ns cim.Namespace, class string) ([]cim.Instance, error) {
	v, err := p.reply(ctx, ns, class, methodInstances)
	if err != nil {
		return nil, err
	}
	return v.([]cim.Instance), nil
}

// Reset drops every cached reply.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ns = ""
	clear(p.replies)
}

// reply returns the cached reply or asks the namespace. Failed lookups are
// not cached. The lock is held during the lookup so concurrent callers ask
// the managed system once.
func (p *Provider) reply(ctx context.Context, ns cim.Namespace, class string, m method) (any, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if id := cim.NamespacePath(ns); id != p.ns {
		if p.ns != "" {
			p.logger.Debug("namespace changed, dropping cached replies", "old", p.ns, "new", id)
		}
		clear(p.replies)
		p.ns = id
	}

	key := replyKey{class: class, method: m}
	if v, ok := p.replies[key]; ok {
		return v, nil
	}

	c, err := ns.Class(class)
	if err != nil {
		return nil, err
	}

	var v any
	switch m {
	case methodFirstInstance:
		v, err = c.FirstInstance(ctx)
	default:
		v, err = c.Instances(ctx)
	}
	if err != nil {
		return nil, err
	}

	p.replies[key] = v
	return v, nil
}
