package autostart

import (
	"fmt"
	"os/exec"
)

const taskName = "DropzoneMonitor"

type WindowsAutoStarter struct {
	run commandRunner
}

func scheduleArgs(execPath string, hour int) []string {
	return []string{"/create",
		"/TN", taskName,
		"/TR", fmt.Sprintf(`"%s" watch`, execPath),
		"/SC", "DAILY",
		"/ST", fmt.Sprintf("%02d:00", hour),
		"/F"}
}

func (w *WindowsAutoStarter) Install(execPath string, hour int) error {
	if err := validHour(hour); err != nil {
		return err
	}

	if err := w.run("schtasks", scheduleArgs(execPath, hour)...); err != nil {
		return fmt.Errorf("failed to register task: %w", err)
	}
	return nil
}

func (w *WindowsAutoStarter) Uninstall() error {
	if err := w.run("schtasks", "/DELETE", "/TN", taskName, "/F"); err != nil {
		return fmt.Errorf("failed to remove task: %w", err)
	}
	return nil
}

func (w *WindowsAutoStarter) IsInstalled() (bool, error) {
	if err := exec.Command("schtasks", "/Query", "/TN", taskName).Run(); err != nil {
		return false, nil
	}
	return true, nil
}
