//go:build darwin

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const launchAgentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`

var plistEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")

func (autostart *Autostart) enable(execPath string) error {
	plistPath, err := autostart.launchAgentPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("autostart: create LaunchAgents dir: %w", err)
	}
	content := fmt.Sprintf(launchAgentTemplate, plistEscaper.Replace(autostart.label()), plistEscaper.Replace(execPath))
	if err := os.WriteFile(plistPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("autostart: write plist: %w", err)
	}
	return nil
}

func (autostart *Autostart) disable() error {
	plistPath, err := autostart.launchAgentPath()
	if err != nil {
		return err
	}
	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("autostart: remove plist: %w", err)
	}
	return nil
}

func (autostart *Autostart) label() string {
	return "com.workwell." + slug(autostart.appName)
}

func (autostart *Autostart) launchAgentPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("autostart: get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", autostart.label()+".plist"), nil
}
