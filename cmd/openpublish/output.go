package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableSpec describes one rendered table. highlight may colour a whole row;
// it is only consulted when colorize is set.
type tableSpec struct {
	title     string
	headers   []string
	rows      [][]string
	aligns    []columnAlignment
	colorize  bool
	highlight func(row []string) text.Colors
}

func renderTable(spec tableSpec) string {
	columns := len(spec.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if spec.title != "" {
		tw.SetTitle(spec.title)
	}

	header := make(table.Row, columns)
	for i, title := range spec.headers {
		header[i] = title
	}
	tw.AppendHeader(header)

	for _, row := range spec.rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		if spec.colorize && spec.highlight != nil {
			if colors := spec.highlight(row); colors != nil {
				for i := range r {
					r[i] = colors.Sprint(r[i])
				}
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(spec.aligns) && spec.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
