package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to launch at login.
type Autostart struct {
	appName string
}

// NewAutostart returns the login-item helper for appName.
func NewAutostart(appName string) *Autostart {
	return &Autostart{appName: appName}
}

// Apply enables or disables launch at login for the running executable.
func (autostart *Autostart) Apply(enabled bool) error {
	if strings.TrimSpace(autostart.appName) == "" {
		return fmt.Errorf("autostart: app name is empty")
	}
	if !enabled {
		return autostart.disable()
	}
	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("autostart: resolve executable: %w", err)
	}
	return autostart.enable(execPath)
}

// slug turns "Work Well" into "work-well".
func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.ReplaceAll(name, " ", "-")
}
