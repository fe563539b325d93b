package plugin

import "sort"

// ByTargets keeps plugins registered for at least one of targets.
func ByTargets(plugins []*Plugin, targets []string) []*Plugin {
	out := make([]*Plugin, 0, len(plugins))
	for _, p := range plugins {
		if intersects(p.Targets, targets) {
			out = append(out, p)
		}
	}
	return out
}

// ByHost keeps plugins that support any of hosts, or every host.
func ByHost(plugins []*Plugin, hosts []string) []*Plugin {
	out := make([]*Plugin, 0, len(plugins))
	for _, p := range plugins {
		if contains(p.Hosts, Wildcard) || intersects(p.Hosts, hosts) {
			out = append(out, p)
		}
	}
	return out
}

// ByFamilies keeps plugins whose families are compatible with families.
func ByFamilies(plugins []*Plugin, families []string) []*Plugin {
	out := make([]*Plugin, 0, len(plugins))
	for _, p := range plugins {
		if FamiliesMatch(p, families) {
			out = append(out, p)
		}
	}
	return out
}

// FamiliesMatch applies the plugin's Match rule to families. A wildcard
// plugin family matches everything, including no families at all.
func FamiliesMatch(p *Plugin, families []string) bool {
	if contains(p.Families, Wildcard) {
		return true
	}
	switch p.Match {
	case MatchSubset:
		if len(p.Families) == 0 {
			return false
		}
		for _, family := range p.Families {
			if !contains(families, family) {
				return false
			}
		}
		return true
	case MatchExact:
		return sameSet(p.Families, families)
	default:
		return intersects(p.Families, families)
	}
}

// InstancesByPlugin returns the instances whose families match p, in
// Context order. The publish flag is not consulted.
func InstancesByPlugin(instances []*Instance, p *Plugin) []*Instance {
	out := make([]*Instance, 0, len(instances))
	for _, inst := range instances {
		if FamiliesMatch(p, inst.AllFamilies()) {
			out = append(out, inst)
		}
	}
	return out
}

// CollectFamilies returns the sorted union of families across instances.
// With onlyActive set, instances that do not publish are ignored.
func CollectFamilies(instances []*Instance, onlyActive bool) []string {
	seen := make(map[string]struct{})
	for _, inst := range instances {
		if onlyActive && !inst.Publish() {
			continue
		}
		for _, family := range inst.AllFamilies() {
			seen[family] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for family := range seen {
		out = append(out, family)
	}
	sort.Strings(out)
	return out
}

func intersects(a, b []string) bool {
	for _, value := range a {
		if contains(b, value) {
			return true
		}
	}
	return false
}

func sameSet(a, b []string) bool {
	for _, value := range a {
		if !contains(b, value) {
			return false
		}
	}
	for _, value := range b {
		if !contains(a, value) {
			return false
		}
	}
	return true
}
