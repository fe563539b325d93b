package publish

import (
	"sync"

	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
)

type seqPhase int

const (
	phaseBoundary seqPhase = iota
	phaseGroupErrors
	phaseValidation
	phaseStop
	phaseTest
	phaseDispatch
	phasePairs
)

type collectState int

const (
	collectPending collectState = iota
	collectOpen
	collectClosed
)

// sequencer yields the pairs of one run. Every call to next resumes exactly
// where the previous Step left off, so a break never loses or repeats work.
type sequencer struct {
	plugins         []*plugin.Plugin
	groups          []ordergroups.Group
	validatorsOrder float64
	test            plugin.TestFunc
	pub             *plugin.Context
	stopRequested   func() bool

	idx     int
	phase   seqPhase
	pending []*plugin.Instance
	queued  []Step
	sticky  string
	done    bool

	current          int
	nextOrder        float64
	lastPluginOrder  *float64
	ordersWithError  []float64
	stopOnValidation bool

	collect   collectState
	validated bool
	errored   bool
	fatal     bool
}

func newSequencer(plugins []*plugin.Plugin, groups []ordergroups.Group, validatorsOrder float64, test plugin.TestFunc, pub *plugin.Context, stopRequested func() bool) *sequencer {
	if test == nil {
		test = plugin.DefaultTest
	}
	if stopRequested == nil {
		stopRequested = func() bool { return false }
	}
	return &sequencer{
		plugins:         plugins,
		groups:          groups,
		validatorsOrder: validatorsOrder,
		test:            test,
		pub:             pub,
		stopRequested:   stopRequested,
	}
}

func (s *sequencer) groupAt(i int) ordergroups.Group {
	if i >= 0 && i < len(s.groups) {
		return s.groups[i]
	}
	return ordergroups.Group{}
}

func orderOf(g ordergroups.Group) *float64 {
	if !g.HasOrder {
		return nil
	}
	order := g.Order
	return &order
}

func (s *sequencer) currentGroupOrder() *float64 { return orderOf(s.groupAt(s.current)) }

func (s *sequencer) nextGroupOrder() *float64 { return orderOf(s.groupAt(s.current + 1)) }

func (s *sequencer) testState() plugin.TestState {
	return plugin.TestState{
		NextOrder:         s.nextOrder,
		LastPluginOrder:   s.lastPluginOrder,
		CurrentGroupOrder: s.currentGroupOrder(),
		NextGroupOrder:    s.nextGroupOrder(),
		OrdersWithError:   append([]float64(nil), s.ordersWithError...),
		StopOnValidation:  s.stopOnValidation,
	}
}

// noteProcessing records the order about to run so the stop test sees it
// even when the plugin fails.
func (s *sequencer) noteProcessing(order float64) {
	s.nextOrder = order
}

// recordError folds a failed result into the bookkeeping consulted at the
// next group boundary.
func (s *sequencer) recordError(order float64) {
	s.errored = true
	for _, existing := range s.ordersWithError {
		if existing == order {
			return
		}
	}
	s.ordersWithError = append(s.ordersWithError, order)
}

// fail ends the run after an engine failure. The pair that failed never
// produced a result, so every later call breaks until the next reset.
func (s *sequencer) fail() {
	s.fatal = true
	s.sticky = ReasonUnexpected
	s.queued = nil
}

// nextLocked is next for callers holding mu. mu is released while the stop
// test runs so the test may read controller state.
func (s *sequencer) nextLocked(mu sync.Locker) Step {
	step := s.next()
	for step.Kind == stepTest {
		state := s.testState()
		mu.Unlock()
		message := s.test(state)
		mu.Lock()
		step = s.testDone(message)
	}
	return step
}

// testDone resumes after the stop test answered. A veto leaves the phase in
// place so the test is asked again on resume.
func (s *sequencer) testDone(message string) Step {
	if s.sticky != "" {
		return Step{Kind: StepBreak, Reason: s.sticky}
	}
	if message != "" {
		return Step{Kind: StepBreak, Reason: testReason(message)}
	}
	order := s.plugins[s.idx].Order
	s.lastPluginOrder = &order
	s.phase = phaseDispatch
	return s.next()
}

func (s *sequencer) advancePlugin() {
	s.idx++
	s.phase = phaseBoundary
	s.pending = nil
}

func (s *sequencer) next() Step {
	if len(s.queued) > 0 {
		step := s.queued[0]
		s.queued = s.queued[1:]
		return step
	}
	if s.sticky != "" {
		return Step{Kind: StepBreak, Reason: s.sticky}
	}
	if s.done {
		return Step{Kind: StepDone}
	}

	for s.idx < len(s.plugins) {
		p := s.plugins[s.idx]
		switch s.phase {
		case phaseBoundary:
			current := s.currentGroupOrder()
			if current == nil || p.Order <= *current {
				s.phase = phaseValidation
				continue
			}
			s.current++
			passed := Step{Kind: StepGroupPassed, Group: s.groupAt(s.current)}
			if s.collect == collectPending {
				s.collect = collectOpen
				s.phase = phaseGroupErrors
				s.queued = append(s.queued,
					Step{Kind: StepToggleable},
					Step{Kind: StepBreak, Reason: ReasonCollected},
				)
				return passed
			}
			s.phase = phaseGroupErrors
			return passed

		case phaseGroupErrors:
			if s.errored {
				s.sticky = ReasonGroupErrors
				return Step{Kind: StepBreak, Reason: s.sticky}
			}
			s.phase = phaseValidation

		case phaseValidation:
			if s.collect == collectOpen {
				s.collect = collectClosed
			}
			s.phase = phaseStop
			if !s.validated && p.Order > s.validatorsOrder {
				s.validated = true
				if s.stopOnValidation {
					return Step{Kind: StepBreak, Reason: ReasonValidated}
				}
			}

		case phaseStop:
			s.phase = phaseTest
			if s.stopRequested() {
				return Step{Kind: StepBreak, Reason: ReasonStopped}
			}

		case phaseTest:
			s.nextOrder = p.Order
			return Step{Kind: stepTest}

		case phaseDispatch:
			if !p.Active {
				s.advancePlugin()
				return Step{Kind: StepSkip, Plugin: p}
			}
			if p.InstanceScoped() {
				var matching []*plugin.Instance
				for _, inst := range plugin.InstancesByPlugin(s.pub.Instances(), p) {
					if inst.Publish() {
						matching = append(matching, inst)
					}
				}
				if len(matching) == 0 {
					s.advancePlugin()
					return Step{Kind: StepSkip, Plugin: p}
				}
				s.pending = matching
			} else {
				if !plugin.FamiliesMatch(p, plugin.CollectFamilies(s.pub.Instances(), true)) {
					s.advancePlugin()
					return Step{Kind: StepSkip, Plugin: p}
				}
				s.pending = []*plugin.Instance{nil}
			}
			s.phase = phasePairs

		case phasePairs:
			if len(s.pending) == 0 {
				s.advancePlugin()
				continue
			}
			inst := s.pending[0]
			if inst != nil && !inst.Publish() {
				s.pending = s.pending[1:]
				continue
			}
			if s.stopRequested() {
				return Step{Kind: StepBreak, Reason: ReasonStopped}
			}
			s.pending = s.pending[1:]
			return Step{Kind: StepPair, Plugin: p, Instance: inst}
		}
	}

	s.done = true
	return Step{Kind: StepGroupPassed, Group: s.groupAt(s.current + 1)}
}
