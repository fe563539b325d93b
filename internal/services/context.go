package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	pluginKey   contextKey = "plugin"
	instanceKey contextKey = "instance"
	actionKey   contextKey = "action"
)

// WithRunID annotates context with the publish run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the publish run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPlugin annotates context with the plugin currently being processed.
func WithPlugin(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, pluginKey, name)
}

// PluginFromContext returns the plugin name if present.
func PluginFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(pluginKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithInstance annotates context with the instance name being processed.
func WithInstance(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, instanceKey, name)
}

// InstanceFromContext returns the instance name if present.
func InstanceFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(instanceKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithAction annotates context with the action identifier being executed.
func WithAction(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, actionKey, id)
}

// ActionFromContext returns the action identifier if present.
func ActionFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(actionKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
