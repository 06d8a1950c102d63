package main

import (
	"github.com/aretw0/surveyor/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Explore in the background behind an HTTP control API",
	Long: `Starts an exploration and exposes /status, /events, /metrics and /control/{stop,resume,pause,unpause,step}.
The server keeps running after the exploration ends until interrupted, unless --exit-when-done is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		exit, _ := cmd.Flags().GetBool("exit-when-done")
		return cli.Serve(cmd.Context(), cli.ServeOptions{
			Config:       cfg,
			ExitWhenDone: exit,
			ErrOut:       cmd.ErrOrStderr(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().Bool("exit-when-done", false, "Shut down once the exploration ends")
}
