package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dropzone/internal/daemon"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop taking new folders and exit once in-flight transfers finish",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Post(daemonURL("/stop"), "application/json", nil)
		if err != nil {
			return fmt.Errorf("monitor not running: %w", err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("stop request failed: %s", resp.Status)
		}

		active, err := activeTransfers()
		if err != nil {
			fmt.Println("stop requested")
			return nil
		}

		switch active {
		case 0:
			fmt.Println("stop requested, no active transfers, the monitor is exiting")
		case 1:
			fmt.Println("stop requested, 1 transfer still running, the monitor exits when it finishes")
		default:
			fmt.Printf("stop requested, %d transfers still running, the monitor exits when they finish\n", active)
		}
		return nil
	},
}

// activeTransfers asks the monitor how many dispatched jobs have not finished.
func activeTransfers() (int, error) {
	resp, err := http.Get(daemonURL("/status"))
	if err != nil {
		return 0, err
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	var result daemon.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode status response: %w", err)
	}
	return result.Active, nil
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
