// Package ordergroups partitions the plugin order number line into named
// groups (Collect, Validate, Extract, Integrate, Other) and derives the
// validation boundary that gates a validate-only run.
//
// An OrderGroups value is built once from a Source and shared with the
// publish controller. Results are parsed lazily and cached until Reset.
package ordergroups
