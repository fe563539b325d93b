// Package publish sequences plugins over a Context.
//
// A Controller discovers plugins, sorts them by order and walks them one
// (plugin, instance) pair at a time through the order groups. Runs pause
// after Collect so the operator can curate instances, stop after validation
// when asked, refuse to enter a group after an earlier group failed, and
// honour cooperative stops between pairs. Exactly one pair is in flight at
// any time and plugin code runs on the caller's goroutine.
//
// There is no timeout. A plugin that never returns blocks its run.
package publish
