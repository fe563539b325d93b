package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Wildcard matches every family or host.
const Wildcard = "*"

// DefaultTarget is used when no target was registered.
const DefaultTarget = "default"

// Scope says whether a plugin runs once per run or once per instance.
type Scope int

const (
	ScopeContext Scope = iota
	ScopeInstance
)

func (s Scope) String() string {
	if s == ScopeInstance {
		return "instance"
	}
	return "context"
}

// Match selects how plugin families are compared with instance families.
type Match int

const (
	// MatchIntersection accepts any shared family.
	MatchIntersection Match = iota
	// MatchSubset requires every plugin family on the instance.
	MatchSubset
	// MatchExact requires identical family sets.
	MatchExact
)

func (m Match) String() string {
	switch m {
	case MatchSubset:
		return "subset"
	case MatchExact:
		return "exact"
	default:
		return "intersection"
	}
}

// ContextFunc is the body of a context-scoped plugin.
type ContextFunc func(ctx context.Context, pub *Context, log *slog.Logger) error

// InstanceFunc is the body of an instance-scoped plugin. The owning Context
// is reachable through inst.Context().
type InstanceFunc func(ctx context.Context, inst *Instance, log *slog.Logger) error

// Plugin describes one ordered unit of work. Construct it with
// NewContextPlugin or NewInstancePlugin; the scope cannot change afterwards.
type Plugin struct {
	Name     string
	Label    string
	Order    float64
	Families []string
	Hosts    []string
	Targets  []string
	Active   bool
	Optional bool
	Match    Match
	Actions  []*Action

	scope           Scope
	processContext  ContextFunc
	processInstance InstanceFunc
}

// NewContextPlugin returns a plugin invoked at most once per run.
func NewContextPlugin(name string, order float64, fn ContextFunc) *Plugin {
	p := newPlugin(name, order, ScopeContext)
	p.processContext = fn
	return p
}

// NewInstancePlugin returns a plugin invoked once per matching instance.
func NewInstancePlugin(name string, order float64, fn InstanceFunc) *Plugin {
	p := newPlugin(name, order, ScopeInstance)
	p.processInstance = fn
	return p
}

func newPlugin(name string, order float64, scope Scope) *Plugin {
	return &Plugin{
		Name:     name,
		Label:    DeriveLabel(name),
		Order:    order,
		Families: []string{Wildcard},
		Hosts:    []string{Wildcard},
		Targets:  []string{DefaultTarget},
		Active:   true,
		scope:    scope,
	}
}

// Scope reports how the plugin is invoked.
func (p *Plugin) Scope() Scope { return p.scope }

// InstanceScoped is shorthand for Scope() == ScopeInstance.
func (p *Plugin) InstanceScoped() bool { return p.scope == ScopeInstance }

func (p *Plugin) String() string { return p.Name }

// Clone returns a copy that can be mutated per run without touching the
// registered descriptor. Actions are shared.
func (p *Plugin) Clone() *Plugin {
	clone := *p
	clone.Families = append([]string(nil), p.Families...)
	clone.Hosts = append([]string(nil), p.Hosts...)
	clone.Targets = append([]string(nil), p.Targets...)
	clone.Actions = append([]*Action(nil), p.Actions...)
	return &clone
}

// Validate reports why a plugin cannot be scheduled.
func (p *Plugin) Validate() error {
	if p == nil {
		return errors.New("plugin is nil")
	}
	if p.Name == "" {
		return errors.New("plugin name is empty")
	}
	if math.IsNaN(p.Order) || math.IsInf(p.Order, 0) {
		return fmt.Errorf("plugin %s: order %v is not finite", p.Name, p.Order)
	}
	switch p.scope {
	case ScopeContext:
		if p.processContext == nil {
			return fmt.Errorf("plugin %s: missing context process function", p.Name)
		}
	case ScopeInstance:
		if p.processInstance == nil {
			return fmt.Errorf("plugin %s: missing instance process function", p.Name)
		}
	}
	seen := make(map[string]struct{}, len(p.Actions))
	for _, action := range p.Actions {
		if action == nil || action.ID == "" || action.Func == nil {
			return fmt.Errorf("plugin %s: incomplete action", p.Name)
		}
		if _, dup := seen[action.ID]; dup {
			return fmt.Errorf("plugin %s: duplicate action %s", p.Name, action.ID)
		}
		seen[action.ID] = struct{}{}
	}
	return nil
}

// ActionByID looks up one of the plugin's actions.
func (p *Plugin) ActionByID(id string) (*Action, bool) {
	for _, action := range p.Actions {
		if action.ID == id {
			return action, true
		}
	}
	return nil, false
}

func (p *Plugin) invoke(ctx context.Context, pub *Context, inst *Instance, log *slog.Logger) error {
	if p.scope == ScopeInstance {
		return p.processInstance(ctx, inst, log)
	}
	return p.processContext(ctx, pub, log)
}
