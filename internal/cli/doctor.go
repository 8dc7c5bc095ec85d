package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Services.Config
			ok := true

			if _, err := exec.LookPath(cfg.Audio.FFmpegCommand); err != nil {
				check(cmd, "ffmpeg", false, fmt.Sprintf("%q not found on PATH; recordings will be served untranscoded", cfg.Audio.FFmpegCommand))
				ok = false
			} else {
				check(cmd, "ffmpeg", true, cfg.Audio.FFmpegCommand)
			}

			if cfg.OpenAI.APIKey != "" {
				check(cmd, "OpenAI API key", true, "configured")
			} else {
				check(cmd, "OpenAI API key", false, "not set; transcription falls back to simulated phrases and post-call generation is disabled")
				ok = false
			}

			probe := filepath.Join(cfg.Recordings.Dir, ".doctor")
			if err := os.WriteFile(probe, nil, 0o644); err != nil {
				check(cmd, "Recordings directory", false, err.Error())
				ok = false
			} else {
				_ = os.Remove(probe)
				check(cmd, "Recordings directory", true, cfg.Recordings.Dir)
			}

			if ok {
				cmd.Println("\nAll prerequisites met.")
			} else {
				cmd.Println("\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}

func check(cmd *cobra.Command, name string, ok bool, detail string) {
	mark := "ok"
	if !ok {
		mark = "missing"
	}
	cmd.Printf("%-22s [%s] %s\n", name, mark, detail)
}
