//go:build linux

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"workwell/internal/core/scheduler"
)

type xprintidleProvider struct {
	path string
}

func newIdleProvider() IdleProvider {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &xprintidleProvider{path: path}
}

func (provider *xprintidleProvider) IdleDuration() (time.Duration, error) {
	// xprintidle only sees X11 input.
	if strings.EqualFold(os.Getenv("XDG_SESSION_TYPE"), "wayland") {
		return 0, scheduler.ErrIdleUnsupported
	}
	output, err := exec.Command(provider.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseMillis(string(output))
}

func parseMillis(value string) (time.Duration, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if millis < 0 {
		millis = 0
	}
	return time.Duration(millis) * time.Millisecond, nil
}
