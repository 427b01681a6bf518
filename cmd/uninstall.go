package cmd

import (
	"fmt"

	"dropzone/internal/autostart"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the daily schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		as := autostart.New()

		installed, err := as.IsInstalled()
		if err != nil {
			return err
		}
		if !installed {
			fmt.Println("dropzone monitor is not scheduled")
			return nil
		}

		if err := as.Uninstall(); err != nil {
			return err
		}

		fmt.Println("dropzone monitor schedule removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
