package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sasakama-code/jsontable-go/pkg/jsontable/manifest"
	"github.com/sasakama-code/jsontable-go/pkg/jsontable/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errBatchFailed = errors.New("one or more tables failed")

func newBatchCmd(a *app) *cobra.Command {
	var (
		outDir  string
		workers int
		pretty  bool
		records bool
	)

	cmd := &cobra.Command{
		Use:   "batch <manifest.hcl>",
		Short: "Extract every table listed in an HCL manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := manifest.Load(args[0])
			if err != nil {
				return err
			}

			results := a.loader.ExtractAll(cmd.Context(), jobs, workers)

			combined := make(map[string]any, len(results))
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					combined[res.Job.Name] = map[string]string{"error": res.Err.Error()}
					continue
				}
				var v any = res.Table
				if records {
					v = output.Records(res.Table)
				}
				combined[res.Job.Name] = v
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return err
				}
				for name, v := range combined {
					jsonData, err := output.ToJSON(v, pretty)
					if err != nil {
						return fmt.Errorf("serialization failed: %w", err)
					}
					if err := writeOutput(a.stdout, filepath.Join(outDir, name+".json"), jsonData); err != nil {
						return err
					}
				}
			} else {
				jsonData, err := output.ToJSON(combined, pretty)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				if err := writeOutput(a.stdout, "", jsonData); err != nil {
					return err
				}
			}

			a.logger.Info("batch finished", zap.Int("tables", len(results)), zap.Int("failed", failed))
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errBatchFailed, failed, len(results))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&outDir, "out-dir", "", "Directory for per-table output files (default: one object on stdout)")
	flags.IntVar(&workers, "workers", 4, "Tables extracted concurrently")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.BoolVar(&records, "records", false, "Output rows as objects keyed by header")
	return cmd
}
