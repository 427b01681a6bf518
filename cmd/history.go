package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"dropzone/internal/model"
	"dropzone/internal/repository"

	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View finished transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := fmt.Sprintf("%s?n=%d", daemonURL("/history"), historyN)
		if historyFailed {
			url = daemonURL("/history?failed=true")
		}

		resp, err := http.Get(url)
		if err != nil {
			return fmt.Errorf("monitor not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("history request failed: %s", resp.Status)
		}

		var transfers []model.Transfer
		if err := json.NewDecoder(resp.Body).Decode(&transfers); err != nil {
			return err
		}

		if len(transfers) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, t := range transfers {
			mark := "✓"
			dest := t.TargetFolder
			if t.Result == model.ResultFailed {
				mark = "✗"
				dest = t.Status
			}

			fmt.Printf("%s [%s] %s -> %s\n",
				mark,
				t.FinishedAt.Format("2006-01-02 15:04:05"),
				t.SourceFolder,
				dest,
			)
		}

		return printStats()
	},
}

func printStats() error {
	resp, err := http.Get(daemonURL("/history/stats"))
	if err != nil {
		return fmt.Errorf("monitor not running: %w", err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stats request failed: %s", resp.Status)
	}

	var stats repository.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return err
	}

	fmt.Printf("\n%d transfers in total, %d copied, %d failed\n", stats.Total, stats.Copied, stats.Failed)
	return nil
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show failed transfers only")
	rootCmd.AddCommand(historyCmd)
}
