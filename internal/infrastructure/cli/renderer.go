package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/doeshing/cmdguard/internal/domain"
	"github.com/doeshing/cmdguard/internal/services"
)

var tierColors = map[domain.RiskTier]*color.Color{
	domain.TierLow:      color.New(color.FgGreen),
	domain.TierMedium:   color.New(color.FgYellow),
	domain.TierHigh:     color.New(color.FgRed),
	domain.TierCritical: color.New(color.FgRed, color.Bold),
}

func tierColor(tier domain.RiskTier) *color.Color {
	if c, ok := tierColors[tier]; ok {
		return c
	}
	return color.New(color.FgWhite)
}

// RenderResult prints a pipeline outcome.
func RenderResult(out io.Writer, result services.RunResult) {
	fmt.Fprintf(out, "Command: %s\n", result.Command)
	fmt.Fprintf(out, "Risk:    %s\n", tierColor(result.Classification.Tier).Sprint(strings.ToUpper(string(result.Classification.Tier))))
	for _, warning := range result.Classification.Warnings {
		fmt.Fprintf(out, " - %s\n", warning)
	}

	switch result.Decision.Kind {
	case domain.DecisionBlock:
		color.New(color.FgRed).Fprintf(out, "\nBlocked: %s\n", result.Decision.Reason)
	case domain.DecisionConfirm:
		if result.UserAction == domain.ActionDecline {
			fmt.Fprintln(out, "\nDeclined; nothing was executed.")
		} else {
			fmt.Fprintln(out, "\nConfirmation required; nothing was executed.")
		}
	}

	if result.Execution != nil {
		renderExecution(out, *result.Execution)
	}

	if result.HistoryWarning != nil {
		color.New(color.FgYellow).Fprintf(out, "\nwarning: history not recorded: %v\n", result.HistoryWarning)
	}
}

func renderExecution(out io.Writer, exec domain.ExecutionResult) {
	fmt.Fprintln(out)
	switch {
	case exec.DryRun:
		color.New(color.FgCyan).Fprintln(out, "Dry run; command was not executed.")
		return
	case exec.TimedOut:
		color.New(color.FgRed).Fprintf(out, "Timed out after %s; process group terminated.\n",
			(time.Duration(exec.DurationMS) * time.Millisecond).Round(time.Millisecond))
	case exec.Success():
		color.New(color.FgGreen).Fprintf(out, "Completed in %s.\n",
			(time.Duration(exec.DurationMS) * time.Millisecond).Round(time.Millisecond))
	default:
		color.New(color.FgRed).Fprintf(out, "Failed with exit code %d.\n", exec.ExitCode)
	}

	if exec.Stdout != "" {
		fmt.Fprintln(out, "\nstdout:")
		fmt.Fprintln(out, strings.TrimRight(exec.Stdout, "\n"))
	}
	if exec.Stderr != "" {
		fmt.Fprintln(out, "\nstderr:")
		fmt.Fprintln(out, strings.TrimRight(exec.Stderr, "\n"))
	}
}

// RenderHistory prints history entries, newest first.
func RenderHistory(out io.Writer, entries []domain.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history recorded yet.")
		return
	}
	for _, entry := range entries {
		status := string(entry.Decision)
		if entry.Execution != nil {
			switch {
			case entry.Execution.DryRun:
				status = "dry-run"
			case entry.Execution.TimedOut:
				status = "timed out"
			case entry.Execution.Success():
				status = "ok"
			default:
				status = fmt.Sprintf("exit %d", entry.Execution.ExitCode)
			}
		}
		fmt.Fprintf(out, "%s  %-8s %-9s %s\n",
			humanize.Time(entry.Timestamp),
			tierColor(entry.Tier).Sprint(entry.Tier),
			status,
			entry.Command,
		)
	}
}
