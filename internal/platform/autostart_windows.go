//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (autostart *Autostart) enable(execPath string) error {
	value := `"` + strings.Trim(execPath, `"`) + `"`
	return runReg("add", registryRunKey, "/v", autostart.appName, "/t", "REG_SZ", "/d", value, "/f")
}

func (autostart *Autostart) disable() error {
	return runReg("delete", registryRunKey, "/v", autostart.appName, "/f")
}

func runReg(args ...string) error {
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("autostart: reg %s: %w: %s", args[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}
