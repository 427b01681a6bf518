package cmd

import (
	"fmt"
	"os"

	"dropzone/internal/config"
	"dropzone/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg     config.Config
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "dropzone",
	Short:        "Moves finished uploads from an inbound folder into dated target and archive areas",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger.Init(debug)

		var err error
		cfg, err = config.Load(cfgPath)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func daemonURL(path string) string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", cfg.DaemonPort, path)
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default ~/.dropzone/config.yaml)")
}
