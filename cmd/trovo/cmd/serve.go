package cmd

import (
	"github.com/spf13/cobra"

	"trovo/internal/web"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.cfg.ListenAddr
		if listenAddr != "" {
			addr = listenAddr
		}

		server := web.NewServer(a.inventory, a.backups, a.logger)
		return server.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
