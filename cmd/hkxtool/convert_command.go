package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"hkxtool/internal/compat"
	"hkxtool/internal/hkx"
	"hkxtool/internal/logging"
	"hkxtool/internal/services/hkxcmd"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var verify bool

	cmd := &cobra.Command{
		Use:   "convert <path> [path...]",
		Short: "Convert HKX containers to the Skyrim SE format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			out := cmd.OutOrStdout()

			var files []string
			for _, arg := range args {
				found, err := hkx.FindFiles(arg)
				if err != nil {
					return err
				}
				files = append(files, found...)
			}
			if len(files) == 0 {
				return fmt.Errorf("no %s files to convert", hkx.Extension)
			}

			target := outputDir
			if target == "" {
				target = cfg.Paths.OutputDir
			}

			client := hkxcmd.New(cfg.Tools.HkxCmd, cfg.Tools.HavokPostProcess, cfg.Tools.ConvertTimeout, logger)
			if !client.Available() {
				return fmt.Errorf("no conversion tools configured; set tools.hkxcmd or tools.havok_postprocess")
			}

			converted := 0
			for _, file := range files {
				outPath := filepath.Join(target, filepath.Base(file))
				if err := client.ConvertForTarget(cmd.Context(), file, outPath); err != nil {
					logger.Error("conversion failed",
						logging.String("file", filepath.Base(file)),
						logging.Error(err))
					fmt.Fprintf(out, "[ERROR] %s: %v\n", filepath.Base(file), err)
					continue
				}
				converted++
				fmt.Fprintf(out, "Converted %s -> %s\n", filepath.Base(file), outPath)

				if verify {
					rec := hkx.Analyze(outPath)
					problems := compat.Problems(rec)
					if len(problems) == 0 {
						fmt.Fprintf(out, "  Verified: no compatibility issues\n")
						continue
					}
					for _, issue := range problems {
						fmt.Fprintf(out, "  Verify: %s\n", issue)
					}
				}
			}
			fmt.Fprintf(out, "\nConverted %d of %d files into %s\n", converted, len(files), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output", "", "Destination directory (default from config)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Re-analyze converted files for compatibility issues")
	return cmd
}
