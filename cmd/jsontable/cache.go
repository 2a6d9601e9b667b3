package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the result cache",
	}

	clearCmd := &cobra.Command{
		Use:   "clear [input.xlsx]",
		Short: "Remove cached results for one workbook, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := ""
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				source = abs
			}
			removed, err := a.cache.Clear(source)
			if err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			_, err = fmt.Fprintf(a.stdout, "removed %d cache entries\n", removed)
			return err
		},
	}

	cmd.AddCommand(clearCmd)
	return cmd
}
