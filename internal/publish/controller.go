package publish

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"openpublish/internal/logging"
	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
	"openpublish/internal/services"
)

// Discoverer returns the plugins available for a run, in any order.
type Discoverer interface {
	Discover(ctx context.Context) ([]*plugin.Plugin, error)
}

// TargetSource returns the active targets.
type TargetSource interface {
	Targets() []string
}

// TestSource returns the stop test to use for a run.
type TestSource interface {
	Test() plugin.TestFunc
}

// Processor invokes one plugin or action. Plugin failures belong in
// Result.Error; a returned error means the call itself broke.
type Processor interface {
	Process(ctx context.Context, p *plugin.Plugin, pub *plugin.Context, inst *plugin.Instance, actionID string) (plugin.Result, error)
}

// Options configures a Controller. Only Discoverer is required. Targets and
// Test fall back to the Discoverer when it implements TargetSource or
// TestSource, and then to ["default"] and plugin.DefaultTest.
type Options struct {
	Discoverer Discoverer
	Targets    TargetSource
	Test       plugin.TestFunc
	Processor  Processor
	Groups     *ordergroups.OrderGroups
	Observer   Observer
	Logger     *slog.Logger
	// Hosts is recorded on the Context root, most recent host first.
	Hosts []string
}

// Controller owns the Context, the sorted plugin list and the sequencer of
// the current run.
type Controller struct {
	discoverer Discoverer
	targets    TargetSource
	test       plugin.TestFunc
	processor  Processor
	groups     *ordergroups.OrderGroups
	observer   Observer
	logger     *slog.Logger
	hosts      []string

	running       atomic.Bool
	stopRequested atomic.Bool

	mu        sync.Mutex
	runID     string
	pub       *plugin.Context
	plugins   []*plugin.Plugin
	seq       *sequencer
	results   []plugin.Result
	processed map[string]plugin.PluginState
	phase     Phase
	stopped   bool
	lastBreak string
}

// New constructs a Controller.
func New(opts Options) (*Controller, error) {
	if opts.Discoverer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "publish", "new controller", "discoverer is required", nil)
	}
	logger := logging.NewComponentLogger(opts.Logger, "publish")
	c := &Controller{
		discoverer: opts.Discoverer,
		targets:    opts.Targets,
		test:       opts.Test,
		processor:  opts.Processor,
		groups:     opts.Groups,
		observer:   opts.Observer,
		logger:     logger,
		hosts:      append([]string(nil), opts.Hosts...),
		processed:  make(map[string]plugin.PluginState),
	}
	if c.targets == nil {
		if source, ok := opts.Discoverer.(TargetSource); ok {
			c.targets = source
		}
	}
	if c.processor == nil {
		c.processor = plugin.NewProcessor(opts.Logger, nil)
	}
	if c.groups == nil {
		c.groups = ordergroups.New(nil, opts.Logger)
	}
	if c.observer == nil {
		c.observer = Events{}
	}
	return c, nil
}

// Reset discovers plugins, builds a fresh Context and runs the Collect
// stage. It returns once collection reaches the first group boundary or
// the plugin list is exhausted.
func (c *Controller) Reset(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return services.ErrAlreadyRunning
	}
	released := false
	defer func() {
		if !released {
			c.running.Store(false)
		}
	}()

	c.setPhase(PhaseResetting)
	c.stopRequested.Store(false)

	c.groups.Reset()
	groups, err := c.groups.Groups()
	if err != nil {
		c.setPhase(PhaseIdle)
		return err
	}
	validatorsOrder, err := c.groups.ValidationOrder()
	if err != nil {
		c.setPhase(PhaseIdle)
		return err
	}

	discovered, err := c.discoverer.Discover(ctx)
	if err != nil {
		c.setPhase(PhaseIdle)
		return services.Wrap(services.ErrUnexpected, "publish", "discover plugins", "", err)
	}
	plugins := plugin.ByTargets(discovered, c.activeTargets())
	sort.SliceStable(plugins, func(i, j int) bool { return plugins[i].Order < plugins[j].Order })

	pub := c.newContext()
	test := c.activeTest()
	runID := uuid.NewString()

	c.mu.Lock()
	c.runID = runID
	c.pub = pub
	c.plugins = plugins
	c.seq = newSequencer(plugins, groups, validatorsOrder, test, pub, c.consumeStop)
	c.results = nil
	c.processed = make(map[string]plugin.PluginState, len(plugins))
	c.stopped = false
	c.lastBreak = ""
	c.mu.Unlock()

	c.logger.Info("publish reset",
		logging.String(logging.FieldEventType, "publish_reset"),
		logging.String(logging.FieldRunID, runID),
		logging.Int("discovered", len(discovered)),
		logging.Int("plugins", len(plugins)),
		logging.Float64("collectors_order", groups[0].Order),
		logging.Float64("validators_order", validatorsOrder),
	)
	c.observer.WasReset()

	released = true
	_, err = c.drive(ctx, false, PhaseCollecting)
	return err
}

// Validate runs until every plugin at or below the validation boundary has
// been attempted. It is a no-op once validation has been passed.
func (c *Controller) Validate(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return services.ErrAlreadyRunning
	}
	c.mu.Lock()
	hasRun := c.seq != nil
	validated := hasRun && c.seq.validated && !c.seq.fatal
	c.mu.Unlock()
	if !hasRun {
		c.running.Store(false)
		return errNotReset
	}
	if validated {
		c.running.Store(false)
		c.logger.Debug("validate skipped, validation already passed")
		return nil
	}
	_, err := c.drive(ctx, true, PhaseValidating)
	return err
}

// Publish runs the remaining plugins. WasFinished is emitted only when the
// plugin list is exhausted.
func (c *Controller) Publish(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return services.ErrAlreadyRunning
	}
	c.mu.Lock()
	hasRun := c.seq != nil
	c.mu.Unlock()
	if !hasRun {
		c.running.Store(false)
		return errNotReset
	}
	finished, err := c.drive(ctx, false, PhasePublishing)
	if err != nil || !finished {
		return err
	}
	c.setPhase(PhaseFinished)
	c.logger.Info("publish finished",
		logging.String(logging.FieldEventType, "publish_finished"),
		logging.String(logging.FieldRunID, c.RunID()),
	)
	c.observer.WasFinished()
	return nil
}

// Stop asks the current run to halt before its next pair. It is safe to
// call from any goroutine, including observers and plugins.
func (c *Controller) Stop() {
	c.stopRequested.Store(true)
}

func (c *Controller) consumeStop() bool {
	return c.stopRequested.Swap(false)
}

var errNotReset = services.Wrap(services.ErrConfiguration, "publish", "run", "controller has not been reset", nil)

func (c *Controller) activeTargets() []string {
	if c.targets != nil {
		if targets := c.targets.Targets(); len(targets) > 0 {
			return targets
		}
	}
	return []string{plugin.DefaultTarget}
}

func (c *Controller) activeTest() plugin.TestFunc {
	if c.test != nil {
		return c.test
	}
	if source, ok := c.discoverer.(TestSource); ok {
		if test := source.Test(); test != nil {
			return test
		}
	}
	return plugin.DefaultTest
}

func (c *Controller) newContext() *plugin.Context {
	pub := plugin.NewContext()
	hosts := slices.Clone(c.hosts)
	slices.Reverse(hosts)
	pub.Set(plugin.KeyHost, hosts)
	pub.Set(plugin.KeyConnectTime, time.Now())
	pub.Set(plugin.KeyComment, "")
	pub.Set(plugin.KeyIntent, "")
	return pub
}

func (c *Controller) setPhase(phase Phase) {
	c.mu.Lock()
	c.phase = phase
	c.mu.Unlock()
}

// State returns a snapshot of the run bookkeeping.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := State{
		Phase:     c.phase,
		RunID:     c.runID,
		IsRunning: c.running.Load(),
		Stopped:   c.stopped,
		LastBreak: c.lastBreak,
	}
	if c.seq != nil {
		state.Errored = c.seq.errored
		state.Collected = c.seq.collect != collectPending
		state.Validated = c.seq.validated
		state.Fatal = c.seq.fatal
		state.Toggleable = c.seq.collect == collectOpen && !state.IsRunning
	}
	return state
}

// RunID identifies the current run.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

// Context returns the Context of the current run, or nil before Reset.
func (c *Controller) Context() *plugin.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pub
}

// Plugins returns the sorted plugin list of the current run.
func (c *Controller) Plugins() []*plugin.Plugin {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*plugin.Plugin(nil), c.plugins...)
}

// Results returns every pair result of the current run in processing order.
func (c *Controller) Results() []plugin.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]plugin.Result(nil), c.results...)
}

// GroupLabel names the order group an order falls into.
func (c *Controller) GroupLabel(order float64) string {
	return c.groups.Label(order)
}

// PluginState reports whether the named plugin ran and failed in this run.
func (c *Controller) PluginState(name string) plugin.PluginState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.processed[name]
}

func (c *Controller) findPlugin(name string) (*plugin.Plugin, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.plugins {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "publish", "find plugin", name, nil)
}

// IsUnexpected reports whether err ended a run as an engine failure.
func IsUnexpected(err error) bool {
	var unexpected *UnexpectedError
	return errors.As(err, &unexpected)
}
