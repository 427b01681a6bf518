package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dropzone/internal/daemon"
	"dropzone/internal/status"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View the running monitor's transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := http.Get(daemonURL("/status"))
		if err != nil {
			return fmt.Errorf("monitor not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var result daemon.StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		if result.Stopping {
			fmt.Printf("stop requested, finishing %d in-flight transfers\n", result.Active)
		}

		if len(result.Records) == 0 {
			fmt.Println("no transfers yet")
			return nil
		}

		for _, name := range status.BucketOrder {
			if n := result.Buckets[name]; n > 0 {
				fmt.Printf("%-13s %d\n", name, n)
			}
		}
		fmt.Println()

		fmt.Printf("%-10s %-14s %-40s %s\n", "ID", "STARTED", "FOLDER", "STATUS")
		for _, rec := range result.Records {
			id := rec.TrackingID
			if len(id) > 8 {
				id = id[:8]
			}

			fmt.Printf("%-10s %-14s %-40s %s\n",
				id, humanize.Time(rec.StartedAt), rec.SourceFolder, rec.Status)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
