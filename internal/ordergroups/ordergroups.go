package ordergroups

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"openpublish/internal/logging"
	"openpublish/internal/services"
)

// Source supplies the raw group configuration. Empty strings select defaults.
type Source interface {
	GroupSpec() string
	ValidationOrderSpec() string
	GroupRangeSpec() string
}

// Static is a fixed Source.
type Static struct {
	Groups          string
	ValidationOrder string
	GroupRange      string
}

func (s Static) GroupSpec() string           { return s.Groups }
func (s Static) ValidationOrderSpec() string { return s.ValidationOrder }
func (s Static) GroupRangeSpec() string      { return s.GroupRange }

// OrderGroups lazily derives groups, the validation boundary and the group
// range from its Source.
type OrderGroups struct {
	source Source
	logger *slog.Logger

	mu              sync.Mutex
	groups          []Group
	validationOrder *float64
	groupRange      *float64
}

// New constructs an OrderGroups. A nil source uses the built-in defaults.
func New(source Source, logger *slog.Logger) *OrderGroups {
	if source == nil {
		source = Static{}
	}
	return &OrderGroups{
		source: source,
		logger: logging.NewComponentLogger(logger, "ordergroups"),
	}
}

// Reset drops every cached value so the next call re-reads the Source.
func (o *OrderGroups) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.groups = nil
	o.validationOrder = nil
	o.groupRange = nil
}

// GroupRange returns the configured band width.
func (o *OrderGroups) GroupRange() (float64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.groupRangeLocked()
}

func (o *OrderGroups) groupRangeLocked() (float64, error) {
	if o.groupRange != nil {
		return *o.groupRange, nil
	}
	value := DefaultGroupRange
	if raw := strings.TrimSpace(o.source.GroupRangeSpec()); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, services.Wrap(services.ErrConfiguration, "ordergroups", "group range", fmt.Sprintf("%q is not a number", raw), nil)
		}
		if parsed <= 0 {
			return 0, services.Wrap(services.ErrConfiguration, "ordergroups", "group range", fmt.Sprintf("%q must be positive", raw), nil)
		}
		value = parsed
	}
	o.groupRange = &value
	return value, nil
}

// Groups returns the ordered groups. Numeric boundaries ascend and the
// label-only group, if any, is last. Callers receive a copy.
func (o *OrderGroups) Groups() ([]Group, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.groups == nil {
		groupRange, err := o.groupRangeLocked()
		if err != nil {
			return nil, err
		}
		groups, warnings, err := ParseGroupString(o.source.GroupSpec(), groupRange)
		if err != nil {
			return nil, err
		}
		for _, warning := range warnings {
			logging.WarnWithContext(o.logger, "order group entry ignored", "order_group_ignored",
				logging.String("detail", warning),
				logging.String(logging.FieldErrorHint, "fix groups.order_groups"),
				logging.String(logging.FieldImpact, "the first matching entry is used"),
			)
		}
		o.groups = groups
	}
	return append([]Group(nil), o.groups...), nil
}

// ValidationOrder returns the order after which a validate-only run halts.
func (o *OrderGroups) ValidationOrder() (float64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.validationOrder != nil {
		return *o.validationOrder, nil
	}
	groupRange, err := o.groupRangeLocked()
	if err != nil {
		return 0, err
	}
	value := ValidatorOrder + groupRange/2
	if raw := strings.TrimSpace(o.source.ValidationOrderSpec()); raw != "" {
		value, err = parseBoundary(raw, groupRange)
		if err != nil {
			return 0, services.Wrap(services.ErrConfiguration, "ordergroups", "validation order", "", err)
		}
	}
	o.validationOrder = &value
	return value, nil
}

// Label names the group an order falls into. It returns "" when groups
// cannot be parsed or no group claims the order.
func (o *OrderGroups) Label(order float64) string {
	groups, err := o.Groups()
	if err != nil {
		return ""
	}
	return LabelFor(groups, order)
}

// LabelFor is Label over an already parsed list.
func LabelFor(groups []Group, order float64) string {
	for _, group := range groups {
		if !group.HasOrder || order <= group.Order {
			return group.Label
		}
	}
	return ""
}
