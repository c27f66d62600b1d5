//go:build !linux && !darwin && !windows

package platform

import "fmt"

func (autostart *Autostart) enable(string) error {
	return fmt.Errorf("autostart: unsupported platform")
}

func (autostart *Autostart) disable() error {
	return nil
}
