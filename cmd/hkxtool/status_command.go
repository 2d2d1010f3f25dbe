package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"hkxtool/internal/deps"
	"hkxtool/internal/preflight"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool availability and environment health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckHavokTools(cfg)
			fmt.Fprintln(out, "External Tools")
			toolRows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				toolRows = append(toolRows, []string{
					status.Name,
					toolStateLabel(status, colorize),
					status.Description,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "State", "Purpose"}, toolRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft}))
			if !deps.HasConverter(statuses) {
				fmt.Fprintln(out, statusLine("Conversion", false, "no converter available; analyze and extract still work", colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Environment")
			for _, result := range preflight.CheckEnvironment(cfg) {
				fmt.Fprintln(out, statusLine(result.Name, result.Passed, result.Detail, colorize))
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Scan Cache")
			fmt.Fprintln(out, statusLine("Enabled", cfg.ScanCache.Enabled, cfg.ScanCache.Path, colorize))
			if cfg.ScanCache.Enabled {
				if store, err := ctx.openCache(cfg); err == nil && store != nil {
					defer store.Close()
					if n, err := store.Len(cmd.Context()); err == nil {
						fmt.Fprintf(out, "  %-20s %d\n", "Cached records:", n)
					}
				}
			}
			return nil
		},
	}
}

func toolStateLabel(status deps.Status, colorize bool) string {
	switch {
	case status.Available:
		return colorLabel("available", ansiGreen, colorize)
	case status.Optional:
		return colorLabel("missing (optional)", ansiYellow, colorize)
	default:
		return colorLabel("missing", ansiRed, colorize)
	}
}

func statusLine(label string, ok bool, detail string, colorize bool) string {
	state := "OK"
	color := ansiGreen
	if !ok {
		state = "WARN"
		color = ansiYellow
	}
	line := fmt.Sprintf("  %-20s [%s] %s", label+":", state, detail)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func colorLabel(label, color string, colorize bool) string {
	if colorize {
		return color + label + ansiReset
	}
	return label
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
