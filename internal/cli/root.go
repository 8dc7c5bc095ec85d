package cli

import (
	"github.com/spf13/cobra"

	"nightcap/internal/bootstrap"
	"nightcap/internal/version"
)

type Dependencies struct {
	Services bootstrap.Services
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nightcapd",
		Short: "Voice recording backend",
		Long:  "Backend service that captures browser voice recordings chunk by chunk, produces playable audio files with live transcripts, and generates post-call stories and summaries.",
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewServeCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}
