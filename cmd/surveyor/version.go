package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/surveyor"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of surveyor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "surveyor version %s\n", strings.TrimSpace(surveyor.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
