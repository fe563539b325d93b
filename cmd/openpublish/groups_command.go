package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"openpublish/internal/ordergroups"
)

type groupsView struct {
	Groups          []groupView `json:"groups"`
	ValidationOrder float64     `json:"validation_order"`
	GroupRange      float64     `json:"group_range"`
}

type groupView struct {
	Label string   `json:"label"`
	Order *float64 `json:"order,omitempty"`
}

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Show the order groups plugins are bucketed into",
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := ctx.orderGroups()
			if err != nil {
				return err
			}
			list, err := groups.Groups()
			if err != nil {
				return err
			}
			validation, err := groups.ValidationOrder()
			if err != nil {
				return err
			}
			groupRange, err := groups.GroupRange()
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, buildGroupsView(list, validation, groupRange))
			}

			rows := make([][]string, 0, len(list))
			for i, group := range list {
				boundary := "-"
				if group.HasOrder {
					boundary = "<= " + formatOrder(group.Order)
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), group.Label, boundary})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"#", "Label", "Orders"},
				rows:    rows,
				aligns:  []columnAlignment{alignRight},
			}))
			fmt.Fprintf(out, "Validation stops after order %s (group range %s)\n", formatOrder(validation), formatOrder(groupRange))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildGroupsView(list []ordergroups.Group, validation, groupRange float64) groupsView {
	view := groupsView{ValidationOrder: validation, GroupRange: groupRange}
	for _, group := range list {
		entry := groupView{Label: group.Label}
		if group.HasOrder {
			order := group.Order
			entry.Order = &order
		}
		view.Groups = append(view.Groups, entry)
	}
	return view
}

func formatOrder(order float64) string {
	return strconv.FormatFloat(order, 'f', -1, 64)
}
