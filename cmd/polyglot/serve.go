package main

import (
	"github.com/spf13/cobra"

	"github.com/polyglotkit/polyglot/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, job, err := buildAssistant(cmd.Context())
		if err != nil {
			return err
		}

		srv, err := server.New(server.Config{Assistant: a, TranslateJob: job})
		if err != nil {
			return err
		}
		return srv.Start(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
}
