package autostart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"dropzone/internal/util"

	"github.com/spf13/afero"
)

const (
	unitName    = "dropzone"
	serviceFile = unitName + ".service"
	timerFile   = unitName + ".timer"
)

var serviceTemplate = template.Must(template.New("service").Parse(`[Unit]
Description=Dropzone inbound folder monitor

[Service]
Type=simple
ExecStart={{.ExecPath}} watch

[Install]
WantedBy=default.target
`))

var timerTemplate = template.Must(template.New("timer").Parse(`[Unit]
Description=Start the dropzone monitor every morning

[Timer]
OnCalendar=*-*-* {{printf "%02d" .Hour}}:00:00
Persistent=true

[Install]
WantedBy=timers.target
`))

// LinuxAutoStarter installs a systemd user service plus a daily timer.
type LinuxAutoStarter struct {
	fs  afero.Fs
	dir string
	run commandRunner
}

func (l *LinuxAutoStarter) unitDir() (string, error) {
	if l.dir != "" {
		return l.dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "systemd", "user"), nil
}

func (l *LinuxAutoStarter) fsys() afero.Fs {
	if l.fs == nil {
		return afero.NewOsFs()
	}
	return l.fs
}

func (l *LinuxAutoStarter) Install(execPath string, hour int) error {
	if err := validHour(hour); err != nil {
		return err
	}

	dir, err := l.unitDir()
	if err != nil {
		return err
	}

	units := map[string]*template.Template{
		serviceFile: serviceTemplate,
		timerFile:   timerTemplate,
	}
	data := map[string]any{"ExecPath": execPath, "Hour": hour}

	for name, tmpl := range units {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		if err := util.AtomicWrite(l.fsys(), filepath.Join(dir, name), &buf, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	cmds := [][]string{
		{"systemctl", "--user", "daemon-reload"},
		{"systemctl", "--user", "enable", "--now", timerFile},
	}
	for _, args := range cmds {
		if err := l.run(args[0], args[1:]...); err != nil {
			return err
		}
	}

	return nil
}

func (l *LinuxAutoStarter) Uninstall() error {
	_ = l.run("systemctl", "--user", "disable", "--now", timerFile)
	_ = l.run("systemctl", "--user", "stop", serviceFile)

	dir, err := l.unitDir()
	if err != nil {
		return err
	}

	for _, name := range []string{timerFile, serviceFile} {
		if err := util.RemoveIfExists(l.fsys(), filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	return l.run("systemctl", "--user", "daemon-reload")
}

func (l *LinuxAutoStarter) IsInstalled() (bool, error) {
	dir, err := l.unitDir()
	if err != nil {
		return false, err
	}

	return util.Exists(l.fsys(), filepath.Join(dir, timerFile))
}
