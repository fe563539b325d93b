package publish

import (
	"context"
	"fmt"
	"strings"

	"openpublish/internal/logging"
	"openpublish/internal/plugin"
	"openpublish/internal/services"
)

// drive advances the sequencer until it breaks or finishes. The caller must
// have claimed c.running; drive releases it. finished reports whether the
// plugin list was exhausted.
func (c *Controller) drive(ctx context.Context, stopOnValidation bool, phase Phase) (finished bool, err error) {
	defer c.running.Store(false)

	c.mu.Lock()
	seq := c.seq
	runID := c.runID
	seq.stopOnValidation = stopOnValidation
	c.phase = phase
	c.stopped = false
	c.lastBreak = ""
	c.mu.Unlock()

	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("run started", logging.String("phase", phase.String()))

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.halt(ReasonStopped, true)
			logger.Info("run cancelled", logging.String(logging.FieldEventType, "run_cancelled"), logging.Error(ctxErr))
			c.observer.WasStopped()
			return false, ctxErr
		}

		c.mu.Lock()
		step := seq.nextLocked(&c.mu)
		c.mu.Unlock()

		switch step.Kind {
		case StepPair:
			c.observer.AboutToProcess(step.Plugin, step.Instance)
			result, procErr := c.process(ctx, step.Plugin, step.Instance)
			if procErr != nil {
				c.mu.Lock()
				seq.fail()
				c.mu.Unlock()
				c.halt(ReasonUnexpected, false)
				logger.Error("run aborted by unexpected error",
					logging.String(logging.FieldEventType, "run_unexpected_error"),
					logging.String(logging.FieldErrorHint, "this is an engine or processor bug, see the error"),
					logging.Error(procErr),
				)
				c.observer.UnexpectedError(procErr)
				c.observer.WasStopped()
				return false, procErr
			}
			c.observer.WasProcessed(result)

		case StepSkip:
			logger.Debug("plugin skipped", logging.String(logging.FieldPlugin, step.Plugin.Name))
			c.observer.WasSkipped(step.Plugin)

		case StepGroupPassed:
			logger.Debug("group passed", logging.String(logging.FieldGroup, step.Group.Label))
			c.observer.PassedGroup(step.Group)

		case StepToggleable:
			c.observer.SwitchToggleability(true)

		case StepBreak:
			stoppedByRequest := step.Reason == ReasonStopped || strings.HasPrefix(step.Reason, ReasonStopped+" due to")
			c.halt(step.Reason, stoppedByRequest)
			switch step.Reason {
			case ReasonUnexpected:
				logging.WarnWithContext(logger, "run refused after engine failure", "run_unexpected_error",
					logging.String(logging.FieldErrorHint, "fix the processor error, then reset"),
					logging.String(logging.FieldImpact, "no further plugins will run"),
				)
			case ReasonGroupErrors:
				logging.WarnWithContext(logger, "run halted after failing group", "run_group_errors",
					logging.String("reason", step.Reason),
					logging.String(logging.FieldErrorHint, "review failed results, then reset"),
					logging.String(logging.FieldImpact, "later groups will not run"),
				)
			default:
				logger.Info("run paused",
					logging.String(logging.FieldEventType, "run_paused"),
					logging.String("reason", step.Reason),
				)
			}
			c.observer.WasStopped()
			return false, nil

		case StepDone:
			c.halt("", false)
			logger.Debug("run exhausted plugin list")
			return true, nil
		}
	}
}

func (c *Controller) halt(reason string, stopped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phase = PhaseIdle
	c.lastBreak = reason
	c.stopped = stopped
}

// process runs one pair and folds its result into the run bookkeeping.
func (c *Controller) process(ctx context.Context, p *plugin.Plugin, inst *plugin.Instance) (plugin.Result, error) {
	c.mu.Lock()
	c.seq.noteProcessing(p.Order)
	pub := c.pub
	c.mu.Unlock()

	result, err := c.safeProcess(ctx, p, pub, inst, "")
	if err != nil {
		return result, err
	}

	c.mu.Lock()
	state := c.processed[p.Name]
	state.Processed = true
	if result.Error != nil {
		c.seq.recordError(p.Order)
		state.Errored = true
	}
	c.processed[p.Name] = state
	c.results = append(c.results, result)
	c.mu.Unlock()

	attrs := []logging.Attr{
		logging.String(logging.FieldPlugin, p.Name),
		logging.Float64(logging.FieldOrder, p.Order),
		logging.Duration("duration", result.Duration),
	}
	if inst != nil {
		attrs = append(attrs, logging.String(logging.FieldInstance, inst.Name()))
	}
	if result.Error != nil {
		c.logger.Warn("plugin reported an error", logging.Args(append(attrs,
			logging.String(logging.FieldEventType, "plugin_error"),
			logging.Error(result.Error),
		)...)...)
	} else {
		c.logger.Debug("plugin processed", logging.Args(attrs...)...)
	}
	return result, nil
}

// safeProcess calls the Processor, converting its errors and panics into
// an *UnexpectedError.
func (c *Controller) safeProcess(ctx context.Context, p *plugin.Plugin, pub *plugin.Context, inst *plugin.Instance, actionID string) (result plugin.Result, err error) {
	instanceName := ""
	if inst != nil {
		instanceName = inst.Name()
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			err = &UnexpectedError{Plugin: p.Name, Instance: instanceName, Err: fmt.Errorf("processor panic: %v", recovered)}
		}
	}()
	result, err = c.processor.Process(ctx, p, pub, inst, actionID)
	if err != nil {
		return result, &UnexpectedError{Plugin: p.Name, Instance: instanceName, Err: err}
	}
	return result, nil
}
