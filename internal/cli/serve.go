package cli

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"nightcap/internal/httpapi"
)

func NewServeCmd(deps *Dependencies) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Services.Config
			if addr == "" {
				addr = cfg.Server.Addr
			}

			server := httpapi.NewServer(deps.Services.Recorder, deps.Services.AI, cfg.OpenAI.StoryLocation)

			log.Printf("audio recording backend listening on %s", addr)
			log.Printf("recordings directory: %s", cfg.Recordings.Dir)
			return http.ListenAndServe(addr, server.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}
