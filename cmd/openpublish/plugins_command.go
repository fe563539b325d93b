package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"openpublish/internal/demo"
	"openpublish/internal/plugin"
)

type pluginView struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Order    float64  `json:"order"`
	Group    string   `json:"group"`
	Scope    string   `json:"scope"`
	Families []string `json:"families"`
	Active   bool     `json:"active"`
	Optional bool     `json:"optional"`
	Actions  []string `json:"actions,omitempty"`
}

func newPluginsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List discovered plugins in processing order",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.registry(demo.Options{})
			if err != nil {
				return err
			}
			groups, err := ctx.orderGroups()
			if err != nil {
				return err
			}
			discovered, err := reg.Discover(cmd.Context())
			if err != nil {
				return err
			}
			plugins := plugin.ByTargets(discovered, reg.Targets())
			sort.SliceStable(plugins, func(i, j int) bool { return plugins[i].Order < plugins[j].Order })

			views := make([]pluginView, 0, len(plugins))
			for _, p := range plugins {
				view := pluginView{
					Name:     p.Name,
					Label:    p.Label,
					Order:    p.Order,
					Group:    groups.Label(p.Order),
					Scope:    p.Scope().String(),
					Families: p.Families,
					Active:   p.Active,
					Optional: p.Optional,
				}
				for _, action := range p.Actions {
					view.Actions = append(view.Actions, action.ID)
				}
				views = append(views, view)
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No plugins discovered")
				return nil
			}

			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					formatOrder(view.Order),
					view.Label,
					view.Group,
					view.Scope,
					strings.Join(view.Families, ", "),
					yesNo(view.Active),
					yesNo(view.Optional),
					strings.Join(view.Actions, ", "),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(tableSpec{
				headers:  []string{"Order", "Plugin", "Group", "Scope", "Families", "Active", "Optional", "Actions"},
				rows:     rows,
				aligns:   []columnAlignment{alignRight},
				colorize: shouldColorize(out),
				highlight: func(row []string) text.Colors {
					if row[5] == "no" {
						return text.Colors{text.Faint}
					}
					return nil
				},
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
