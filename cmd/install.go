package cmd

import (
	"fmt"
	"os"

	"dropzone/internal/autostart"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Start the monitor every day at daily_start_hour",
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}

		as := autostart.New()
		if err := as.Install(execPath, cfg.DailyStartHour); err != nil {
			return err
		}

		fmt.Printf("dropzone monitor scheduled daily at %02d:00\n", cfg.DailyStartHour)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
