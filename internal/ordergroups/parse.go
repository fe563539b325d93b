package ordergroups

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"openpublish/internal/services"
)

// Canonical plugin orders.
const (
	CollectorOrder  = 0.0
	ValidatorOrder  = 1.0
	ExtractorOrder  = 2.0
	IntegratorOrder = 3.0
)

// DefaultGroupRange is the width of one canonical order band.
const DefaultGroupRange = 1.0

// Group is one order bucket. Groups without an order catch everything past
// the last numeric boundary.
type Group struct {
	Order    float64
	HasOrder bool
	Label    string
}

func (g Group) String() string {
	if !g.HasOrder {
		return g.Label
	}
	return strconv.FormatFloat(g.Order, 'f', -1, 64) + "=" + g.Label
}

// Defaults returns the built-in grouping.
func Defaults() []Group {
	return []Group{
		{Order: CollectorOrder + 0.5, HasOrder: true, Label: "Collect"},
		{Order: ValidatorOrder + 0.5, HasOrder: true, Label: "Validate"},
		{Order: ExtractorOrder + 0.5, HasOrder: true, Label: "Extract"},
		{Order: IntegratorOrder + 0.5, HasOrder: true, Label: "Integrate"},
		{Label: "Other"},
	}
}

// ParseGroupString parses a comma separated list of `label`, `order=label`
// and `<order=label` entries. Bare orders are shifted by half of groupRange;
// `<` marks an order that is already a boundary. Duplicate orders and extra
// label-only entries are dropped and reported as warnings. A spec with no
// entries yields Defaults.
func ParseGroupString(spec string, groupRange float64) ([]Group, []string, error) {
	var (
		numeric   []Group
		catchAll  *Group
		warnings  []string
		seenOrder = make(map[float64]string)
	)

	for _, raw := range strings.Split(spec, ",") {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}

		key, label, hasKey := strings.Cut(entry, "=")
		if !hasKey {
			if catchAll != nil {
				warnings = append(warnings, fmt.Sprintf("ignoring label-only group %q, %q already catches remaining orders", entry, catchAll.Label))
				continue
			}
			catchAll = &Group{Label: entry}
			continue
		}

		label = strings.TrimSpace(label)
		if label == "" {
			return nil, warnings, services.Wrap(services.ErrConfiguration, "ordergroups", "parse groups", fmt.Sprintf("group %q has no label", entry), nil)
		}
		order, err := parseBoundary(key, groupRange)
		if err != nil {
			return nil, warnings, services.Wrap(services.ErrConfiguration, "ordergroups", "parse groups", fmt.Sprintf("group %q", entry), err)
		}
		if existing, ok := seenOrder[order]; ok {
			warnings = append(warnings, fmt.Sprintf("duplicate group order %s for %q, keeping %q", formatOrder(order), label, existing))
			continue
		}
		seenOrder[order] = label
		numeric = append(numeric, Group{Order: order, HasOrder: true, Label: label})
	}

	if len(numeric) == 0 && catchAll == nil {
		return Defaults(), warnings, nil
	}

	sort.SliceStable(numeric, func(i, j int) bool { return numeric[i].Order < numeric[j].Order })
	if catchAll != nil {
		numeric = append(numeric, *catchAll)
	}
	return numeric, warnings, nil
}

// parseBoundary reads one order key. `<1.5` is used verbatim, `1` becomes
// 1 + groupRange/2.
func parseBoundary(key string, groupRange float64) (float64, error) {
	key = strings.TrimSpace(key)
	verbatim := strings.HasPrefix(key, "<")
	if verbatim {
		key = strings.TrimSpace(key[1:])
	}
	value, err := strconv.ParseFloat(key, 64)
	if err != nil {
		return 0, fmt.Errorf("order %q is not a number", key)
	}
	if verbatim {
		return value, nil
	}
	return value + groupRange/2, nil
}

func formatOrder(order float64) string {
	return strconv.FormatFloat(order, 'f', -1, 64)
}
