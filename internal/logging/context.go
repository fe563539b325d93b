package logging

import (
	"context"
	"log/slog"

	"openpublish/internal/services"
)

const (
	// FieldComponent names the subsystem emitting the record.
	FieldComponent = "component"
	// FieldRunID identifies one reset-to-finish publish run.
	FieldRunID = "run_id"
	// FieldPlugin is the plugin name a record concerns.
	FieldPlugin = "plugin"
	// FieldInstance is the instance name a record concerns.
	FieldInstance = "instance"
	// FieldAction is the action identifier for out-of-band invocations.
	FieldAction = "action"
	// FieldGroup is the order-group label.
	FieldGroup = "group"
	// FieldOrder is a plugin or group order.
	FieldOrder = "order"
	// FieldEventType classifies a record for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests a next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if name, ok := services.PluginFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPlugin, name))
	}
	if name, ok := services.InstanceFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldInstance, name))
	}
	if id, ok := services.ActionFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAction, id))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
