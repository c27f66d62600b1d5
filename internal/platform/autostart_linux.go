//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (autostart *Autostart) enable(execPath string) error {
	entryPath, err := autostart.desktopEntryPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return fmt.Errorf("autostart: create autostart dir: %w", err)
	}

	execLine := execPath
	if strings.Contains(execLine, " ") {
		execLine = `"` + strings.Trim(execLine, `"`) + `"`
	}
	entry := fmt.Sprintf("[Desktop Entry]\nType=Application\nName=%s\nComment=Water, eye rest and movement reminders\nExec=%s\nX-GNOME-Autostart-enabled=true\nTerminal=false\n",
		autostart.appName, execLine)
	if err := os.WriteFile(entryPath, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("autostart: write desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) disable() error {
	entryPath, err := autostart.desktopEntryPath()
	if err != nil {
		return err
	}
	if err := os.Remove(entryPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (autostart *Autostart) desktopEntryPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("autostart: resolve config dir: %w", err)
	}
	return filepath.Join(configDir, "autostart", slug(autostart.appName)+".desktop"), nil
}
