package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "about",
		Short: "Show a short description and link",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "batrans — Batch Translator for tabular news summaries")
			fmt.Fprintln(out, "https://github.com/oukeidos/batrans")
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	return cmd
}
