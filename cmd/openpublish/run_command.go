package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"openpublish/internal/demo"
	"openpublish/internal/logging"
	"openpublish/internal/ordergroups"
	"openpublish/internal/plugin"
	"openpublish/internal/publish"
	"openpublish/internal/runlock"
)

const (
	untilCollect  = "collect"
	untilValidate = "validate"
	untilPublish  = "publish"
)

var errRunFailed = errors.New("publish run reported errors")

type runSummary struct {
	RunID     string          `json:"run_id"`
	Phase     string          `json:"phase"`
	Collected bool            `json:"collected"`
	Validated bool            `json:"validated"`
	Errored   bool            `json:"errored"`
	Stopped   bool            `json:"stopped"`
	LastBreak string          `json:"last_break,omitempty"`
	Results   []resultSummary `json:"results"`
}

type resultSummary struct {
	Plugin     string  `json:"plugin"`
	Instance   string  `json:"instance,omitempty"`
	Order      float64 `json:"order"`
	Group      string  `json:"group"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
	DurationMS int64   `json:"duration_ms"`
	Records    int     `json:"records"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var until string
	var fail bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the publish pipeline",
		Long: "Run discovers plugins, collects instances and then validates and publishes them.\n" +
			"Use --until to pause after collection or validation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			until = strings.ToLower(strings.TrimSpace(until))
			switch until {
			case untilCollect, untilValidate, untilPublish:
			default:
				return fmt.Errorf("--until must be one of %s, %s or %s", untilCollect, untilValidate, untilPublish)
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			lock, err := runlock.Acquire(cfg.Publish.LockDir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logger.Warn("failed to release run lock", logging.Error(err))
				}
			}()

			reg, err := ctx.registry(demo.Options{Fail: fail})
			if err != nil {
				return err
			}
			groups, err := ctx.orderGroups()
			if err != nil {
				return err
			}

			list, err := groups.Groups()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var observer publish.Observer = publish.Events{}
			if !jsonOutput {
				observer = newEventPrinter(out, shouldColorize(out), list[0].Label)
			}

			ctrl, err := publish.New(publish.Options{
				Discoverer: reg,
				Processor:  plugin.NewProcessor(logger, cfg.Logging.PluginOverrides),
				Groups:     groups,
				Observer:   observer,
				Logger:     logger,
				Hosts:      cfg.Publish.Hosts,
			})
			if err != nil {
				return err
			}

			if err := drivePipeline(cmd.Context(), ctrl, until); err != nil {
				return err
			}

			summary := summarize(ctrl)
			if jsonOutput {
				if err := writeJSON(cmd, summary); err != nil {
					return err
				}
			} else {
				printSummary(out, summary, shouldColorize(out))
			}
			if summary.Errored {
				return errRunFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&until, "until", untilPublish, "Stop after this stage: collect, validate or publish")
	cmd.Flags().BoolVar(&fail, "fail", false, "Make the demo naming validator fail")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}

func drivePipeline(ctx context.Context, ctrl *publish.Controller, until string) error {
	if err := ctrl.Reset(ctx); err != nil {
		return err
	}
	if until == untilCollect {
		return nil
	}
	if err := ctrl.Validate(ctx); err != nil {
		return err
	}
	if until == untilValidate || ctrl.State().Errored {
		return nil
	}
	return ctrl.Publish(ctx)
}

func summarize(ctrl *publish.Controller) runSummary {
	state := ctrl.State()
	summary := runSummary{
		RunID:     state.RunID,
		Phase:     state.Phase.String(),
		Collected: state.Collected,
		Validated: state.Validated,
		Errored:   state.Errored,
		Stopped:   state.Stopped,
		LastBreak: state.LastBreak,
		Results:   []resultSummary{},
	}
	for _, result := range ctrl.Results() {
		entry := resultSummary{
			Plugin:     result.Plugin.Name,
			Instance:   result.InstanceName(),
			Order:      result.Plugin.Order,
			Group:      ctrl.GroupLabel(result.Plugin.Order),
			Success:    result.Success,
			DurationMS: result.Duration.Milliseconds(),
			Records:    len(result.Records),
		}
		if result.Error != nil {
			entry.Error = result.Error.Error()
		}
		summary.Results = append(summary.Results, entry)
	}
	return summary
}

func printSummary(out io.Writer, summary runSummary, colorize bool) {
	fmt.Fprintln(out)
	if len(summary.Results) > 0 {
		rows := make([][]string, 0, len(summary.Results))
		for _, result := range summary.Results {
			status := "ok"
			if !result.Success {
				status = "failed"
			}
			instance := result.Instance
			if instance == "" {
				instance = "-"
			}
			rows = append(rows, []string{
				formatOrder(result.Order),
				result.Plugin,
				instance,
				result.Group,
				status,
				(time.Duration(result.DurationMS) * time.Millisecond).String(),
			})
		}
		fmt.Fprintln(out, renderTable(tableSpec{
			title:    "Results",
			headers:  []string{"Order", "Plugin", "Instance", "Group", "Status", "Duration"},
			rows:     rows,
			aligns:   []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			colorize: colorize,
			highlight: func(row []string) text.Colors {
				if row[4] == "failed" {
					return text.Colors{text.FgRed}
				}
				return nil
			},
		}))
	}
	fmt.Fprintf(out, "Run %s: phase=%s validated=%s errored=%s\n", summary.RunID, summary.Phase, yesNo(summary.Validated), yesNo(summary.Errored))
	if summary.LastBreak != "" {
		fmt.Fprintf(out, "Paused: %s\n", summary.LastBreak)
	}
}

// eventPrinter streams controller signals as status lines.
type eventPrinter struct {
	publish.Events
	out      io.Writer
	colorize bool
}

func newEventPrinter(out io.Writer, colorize bool, firstGroup string) *eventPrinter {
	p := &eventPrinter{out: out, colorize: colorize}
	p.Events = publish.Events{
		OnWasReset: func() {
			p.header(firstGroup)
		},
		OnPassedGroup: func(group ordergroups.Group) {
			if group.Label != "" {
				p.header(group.Label)
			}
		},
		OnWasProcessed: func(result plugin.Result) {
			label := result.Plugin.Label
			if name := result.InstanceName(); name != "" {
				label += " · " + name
			}
			if result.Error != nil {
				p.line(label, statusError, result.Error.Error())
				return
			}
			p.line(label, statusOK, "")
		},
		OnWasSkipped: func(pl *plugin.Plugin) {
			p.line(pl.Label, statusSkip, "")
		},
		OnUnexpectedError: func(err error) {
			p.line("engine", statusError, err.Error())
		},
	}
	return p
}

func (p *eventPrinter) header(title string) {
	for _, line := range renderSectionHeader(title, p.colorize) {
		fmt.Fprintln(p.out, line)
	}
}

func (p *eventPrinter) line(label string, kind statusKind, message string) {
	fmt.Fprintln(p.out, renderStatusLine(label, kind, message, p.colorize))
}
