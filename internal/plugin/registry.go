package plugin

import (
	"context"
	"log/slog"
	"sync"

	"openpublish/internal/logging"
)

// Registry holds registered plugins, hosts, targets and the stop test. It
// is the stock discovery collaborator for the publish controller.
type Registry struct {
	mu      sync.RWMutex
	plugins []*Plugin
	hosts   []string
	targets []string
	test    TestFunc
	presets Presets
	logger  *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logging.NewComponentLogger(logger, "registry")}
}

// Register adds p, replacing any plugin with the same name. Broken plugins
// are accepted here and dropped at discovery.
func (r *Registry) Register(p *Plugin) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.plugins {
		if existing.Name == p.Name {
			r.plugins[i] = p
			return
		}
	}
	r.plugins = append(r.plugins, p)
}

// Deregister removes the named plugin.
func (r *Registry) Deregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.plugins {
		if existing.Name == name {
			r.plugins = append(r.plugins[:i:i], r.plugins[i+1:]...)
			return true
		}
	}
	return false
}

// RegisterHost records a host the process runs inside.
func (r *Registry) RegisterHost(host string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if host != "" && !contains(r.hosts, host) {
		r.hosts = append(r.hosts, host)
	}
}

// Hosts returns registered hosts in registration order.
func (r *Registry) Hosts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.hosts...)
}

// RegisterTarget activates a target.
func (r *Registry) RegisterTarget(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if target != "" && !contains(r.targets, target) {
		r.targets = append(r.targets, target)
	}
}

// Targets returns the active targets, or ["default"] when none were registered.
func (r *Registry) Targets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.targets) == 0 {
		return []string{DefaultTarget}
	}
	return append([]string(nil), r.targets...)
}

// RegisterTest replaces the stop test.
func (r *Registry) RegisterTest(fn TestFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.test = fn
}

// Test returns the registered stop test, or DefaultTest.
func (r *Registry) Test() TestFunc {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.test == nil {
		return DefaultTest
	}
	return r.test
}

// SetPresets installs attribute presets applied during discovery.
func (r *Registry) SetPresets(presets Presets) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.presets = presets
}

// Discover returns per-run clones of the registered plugins that support a
// registered host, with presets applied. Invalid plugins are logged and
// left out. The result is in registration order, not sorted.
func (r *Registry) Discover(ctx context.Context) ([]*Plugin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	registered := append([]*Plugin(nil), r.plugins...)
	hosts := append([]string(nil), r.hosts...)
	presets := r.presets.ForHosts(hosts)
	r.mu.RUnlock()

	discovered := make([]*Plugin, 0, len(registered))
	for _, p := range ByHost(registered, hosts) {
		if err := p.Validate(); err != nil {
			logging.WarnWithContext(r.logger, "plugin dropped from discovery", "plugin_invalid",
				logging.String(logging.FieldPlugin, p.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "fix the plugin definition"),
				logging.String(logging.FieldImpact, "plugin will not run"),
			)
			continue
		}
		clone := p.Clone()
		if preset, ok := presets[p.Name]; ok {
			preset.Apply(clone)
			r.logger.Debug("plugin preset applied", logging.String(logging.FieldPlugin, p.Name))
		}
		discovered = append(discovered, clone)
	}
	return discovered, nil
}
