package cmd

import (
	"github.com/FitrahHaque/Repetition-Engine/logging"
	"github.com/FitrahHaque/Repetition-Engine/server"
	"github.com/spf13/cobra"
)

func init() {
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves detection over HTTP",
	Long: `Serves POST /detect and POST /compress, both taking
{"tokens": [...], "window": n}, and GET /healthz.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.New(logging.GetGlobalLogger()).ListenAndServe(cmd.Context(), cfg.Addr)
	},
}
