package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"openpublish/internal/logging"
	"openpublish/internal/services"
)

// Result is the outcome of invoking one plugin, or one of its actions.
type Result struct {
	Plugin   *Plugin
	Instance *Instance
	Action   string
	Success  bool
	Error    error
	Records  []logging.Record
	Duration time.Duration
}

// InstanceName returns the processed instance's name, or "" for context calls.
func (r Result) InstanceName() string {
	if r.Instance == nil {
		return ""
	}
	return r.Instance.Name()
}

// PluginError is a failure reported by plugin code, either a returned error
// or a recovered panic.
type PluginError struct {
	Plugin   string
	Instance string
	Action   string
	Err      error
	Panicked bool
	Stack    string
}

func (e *PluginError) Error() string {
	var b strings.Builder
	b.WriteString(e.Plugin)
	if e.Action != "" {
		b.WriteString(" action ")
		b.WriteString(e.Action)
	}
	if e.Instance != "" {
		b.WriteString(" on ")
		b.WriteString(e.Instance)
	}
	if e.Panicked {
		b.WriteString(" panicked")
	} else {
		b.WriteString(" failed")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *PluginError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, services.ErrPlugin) classify plugin failures.
func (e *PluginError) Is(target error) bool { return target == services.ErrPlugin }

// DefaultProcessor runs plugin and action code in the calling goroutine,
// capturing what it logs. Plugin failures never escape as errors; they are
// reported through Result.Error.
type DefaultProcessor struct {
	logger    *slog.Logger
	overrides map[string]string
}

// NewProcessor returns a processor whose plugin loggers derive from logger.
// overrides maps plugin names to minimum log levels.
func NewProcessor(logger *slog.Logger, overrides map[string]string) *DefaultProcessor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DefaultProcessor{logger: logger, overrides: overrides}
}

// Process invokes p against inst (instance-scoped) or pub (context-scoped).
// A non-empty actionID runs that action instead. The returned error is only
// set when the call itself is malformed.
func (d *DefaultProcessor) Process(ctx context.Context, p *Plugin, pub *Context, inst *Instance, actionID string) (Result, error) {
	result := Result{Plugin: p, Instance: inst, Action: actionID}
	if p == nil || pub == nil {
		return result, errors.New("process: plugin and context are required")
	}

	var action *Action
	if actionID != "" {
		found, ok := p.ActionByID(actionID)
		if !ok {
			return result, services.Wrap(services.ErrNotFound, "plugin", "process", fmt.Sprintf("plugin %s has no action %q", p.Name, actionID), nil)
		}
		action = found
		inst = nil
		result.Instance = nil
	} else if p.InstanceScoped() != (inst != nil) {
		return result, fmt.Errorf("process: %s plugin %s called with instance=%v", p.Scope(), p.Name, inst != nil)
	}

	ctx = services.WithPlugin(ctx, p.Name)
	if inst != nil {
		ctx = services.WithInstance(ctx, inst.Name())
	}
	ctx = services.WithAction(ctx, actionID)

	capture := logging.NewRecordHandler(slog.LevelDebug)
	log := logging.TeeLogger(d.logger, capture)
	log = logging.ForPlugin(log, p.Name, d.overrides)
	log = logging.WithContext(ctx, log)

	start := time.Now()
	stack, err := call(func() error {
		if action != nil {
			return action.Func(ctx, pub, p, log)
		}
		return p.invoke(ctx, pub, inst, log)
	})
	result.Duration = time.Since(start)

	if err != nil {
		pluginErr := &PluginError{
			Plugin:   p.Name,
			Instance: result.InstanceName(),
			Action:   actionID,
			Err:      err,
			Panicked: stack != "",
			Stack:    stack,
		}
		result.Error = pluginErr
		log.Error("plugin failed",
			logging.String(logging.FieldEventType, "plugin_failed"),
			logging.String(logging.FieldErrorHint, "inspect the plugin records"),
			logging.Error(err),
		)
	} else {
		result.Success = true
	}
	result.Records = capture.Records()
	return result, nil
}

// call runs fn, converting a panic into an error plus stack.
func call(fn func() error) (stack string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			stack = string(debug.Stack())
			if asErr, ok := recovered.(error); ok {
				err = asErr
				return
			}
			err = fmt.Errorf("%v", recovered)
		}
	}()
	return "", fn()
}
