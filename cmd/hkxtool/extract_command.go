package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hkxtool/internal/deps"
	"hkxtool/internal/logging"
	"hkxtool/internal/preflight"
	"hkxtool/internal/services/witchybnd"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var listOnly bool
	var dryRun bool
	var fileFilter string
	var includeBehavior bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract animation bundles from the game tree using WitchyBND",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			out := cmd.OutOrStdout()

			names := append([]string(nil), cfg.Bundles.Animation...)
			if includeBehavior {
				names = append(names, cfg.Bundles.Behavior...)
			}
			found, missing := witchybnd.FindBundles(cfg.Paths.SourceDir, names, fileFilter)

			if listOnly {
				printBundleList(out, found, missing)
				return nil
			}

			if len(found) == 0 {
				return fmt.Errorf("no bundles found under %s", cfg.Paths.SourceDir)
			}
			for _, name := range missing {
				fmt.Fprintf(out, "[WARN] Expected file not found: %s\n", name)
			}

			if dryRun {
				for _, bundle := range found {
					fmt.Fprintf(out, "[DRY RUN] Would extract %s\n", filepath.Base(bundle))
				}
				fmt.Fprintf(out, "[DRY RUN] Output would go to: %s\n", cfg.Paths.ExtractDir)
				return nil
			}

			statuses := deps.CheckHavokTools(cfg)
			results := preflight.CheckEnvironment(cfg)
			if !preflight.AllPassed(results, statuses[:1]) {
				printPreflightFailures(out, results, statuses[:1])
				return fmt.Errorf("environment checks failed")
			}

			client, err := witchybnd.New(cfg.Tools.WitchyBND, cfg.Tools.ExtractTimeout, logger)
			if err != nil {
				return err
			}

			var hkxTotal, taeTotal int
			for _, bundle := range found {
				result, err := client.Extract(cmd.Context(), bundle, cfg.Paths.ExtractDir)
				if err != nil {
					logger.Error("extraction failed",
						logging.String("bundle", filepath.Base(bundle)),
						logging.Error(err))
					fmt.Fprintf(out, "[ERROR] %s: %v\n", filepath.Base(bundle), err)
					continue
				}
				fmt.Fprintf(out, "Extracted %s: %d HKX, %d TAE, %d other\n",
					result.Bundle, len(result.HKX), len(result.TAE), result.Other)
				hkxTotal += len(result.HKX)
				taeTotal += len(result.TAE)
			}
			fmt.Fprintf(out, "\nDone: %d HKX and %d TAE files under %s\n",
				hkxTotal, taeTotal, cfg.Paths.ExtractDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&listOnly, "list", false, "List all target bundles and exit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview extraction without running WitchyBND")
	cmd.Flags().StringVar(&fileFilter, "file", "", "Extract only bundles matching this name (e.g. 'c0000_a2x')")
	cmd.Flags().BoolVar(&includeBehavior, "include-behavior", false, "Also extract behavior and character bundles")
	return cmd
}

func printBundleList(out io.Writer, found, missing []string) {
	rows := make([][]string, 0, len(found)+len(missing))
	var totalMB float64
	for _, path := range found {
		sizeMB := 0.0
		if info, err := os.Stat(path); err == nil {
			sizeMB = float64(info.Size()) / 1024 / 1024
		}
		totalMB += sizeMB
		rows = append(rows, []string{filepath.Base(path), fmt.Sprintf("%.2f MB", sizeMB), "found"})
	}
	for _, name := range missing {
		rows = append(rows, []string{name, "-", "missing"})
	}
	fmt.Fprintln(out, renderTable([]string{"Bundle", "Size", "Status"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft}))
	fmt.Fprintf(out, "\nTotal: %.2f MB across %d bundles\n", totalMB, len(found))
}

func printPreflightFailures(out io.Writer, results []preflight.Result, statuses []deps.Status) {
	for _, result := range results {
		if !result.Passed {
			fmt.Fprintf(out, "[ERROR] %s: %s\n", result.Name, result.Detail)
		}
	}
	for _, status := range statuses {
		if !status.Available {
			fmt.Fprintf(out, "[ERROR] %s: %s\n", status.Name, status.Detail)
		}
	}
}
