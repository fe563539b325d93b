// Package logs reads the openpublish log file back for the CLI.
//
// Tail returns the last matching lines and the offset to resume from;
// Follow keeps polling from that offset until the context ends. A Query
// narrows lines to one run or one plugin. JSON lines are matched on their
// run_id and plugin fields, console lines on the text they render.
package logs
