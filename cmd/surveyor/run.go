package main

import (
	"github.com/aretw0/surveyor/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Explore a synthetic program in the foreground",
	Long: `Runs the surveyor until the exploration is done, the step bound is reached,
or a stop is requested (SIGUSR1, or 'q' in single-step mode). SIGUSR2 enables single-step mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		report, _ := cmd.Flags().GetBool("report")
		limit, _ := cmd.Flags().GetInt("report-limit")
		graph, _ := cmd.Flags().GetString("graph")
		quiet, _ := cmd.Flags().GetBool("quiet")

		return cli.Execute(cmd.Context(), cli.RunOptions{
			Config:      cfg,
			Report:      report,
			ReportLimit: limit,
			GraphPath:   graph,
			Quiet:       quiet,
			Out:         cmd.OutOrStdout(),
			ErrOut:      cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("report", false, "Render a markdown report when the run ends")
	runCmd.Flags().Int("report-limit", 20, "Maximum archived paths listed per section in the report")
	runCmd.Flags().String("graph", "", "Write a Mermaid lineage graph of archived paths to this file")
	runCmd.Flags().BoolP("quiet", "q", false, "Print nothing but the report")
}
