package main

import (
	"fmt"

	"github.com/bobmcallan/graphql-mcp/internal/common"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "graphql-mcp %s\n", common.GetFullVersion())
	},
}
