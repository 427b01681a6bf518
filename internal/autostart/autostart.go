package autostart

import (
	"fmt"
	"os/exec"
	"runtime"
)

// AutoStarter registers the daemon to start once a day at a given hour.
type AutoStarter interface {
	Install(execPath string, hour int) error
	Uninstall() error
	IsInstalled() (bool, error)
}

func New() AutoStarter {
	switch runtime.GOOS {
	case "windows":
		return &WindowsAutoStarter{run: runCommand}
	case "linux":
		return &LinuxAutoStarter{run: runCommand}
	default:
		return &UnsupportedAutoStarter{}
	}
}

type commandRunner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to run %s %v: %w\n%s", name, args, err, out)
	}
	return nil
}

func validHour(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("start hour must be within 0-23, got %d", hour)
	}
	return nil
}

type UnsupportedAutoStarter struct{}

func (u *UnsupportedAutoStarter) Install(_ string, _ int) error {
	return fmt.Errorf("autostart is not supported on %s", runtime.GOOS)
}

func (u *UnsupportedAutoStarter) Uninstall() error {
	return nil
}

func (u *UnsupportedAutoStarter) IsInstalled() (bool, error) {
	return false, nil
}
