package cmd

import (
	"fmt"

	"dropzone/internal/daemon"
	"dropzone/internal/stability"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		fmt.Printf("watch dir:         %s\n", cfg.WatchDir)
		fmt.Printf("target dir:        %s\n", cfg.TargetDir)
		fmt.Printf("archive dir:       %s\n", cfg.ArchiveDir)
		fmt.Printf("log dir:           %s\n", cfg.LogDir)
		fmt.Printf("poll interval:     %s\n", stability.HumanDuration(cfg.PollInterval))
		fmt.Printf("stability timeout: %s\n", stability.HumanDuration(cfg.StabilityTimeout))
		fmt.Printf("workers:           %d\n", daemon.Capacity(cfg.Workers))
		fmt.Printf("working hours:     %02d:00 - %02d:00\n", cfg.DailyStartHour, cfg.DailyEndingHour)
		fmt.Println("configuration ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
