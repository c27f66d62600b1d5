//go:build darwin

package platform

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type ioregProvider struct{}

func newIdleProvider() IdleProvider {
	if _, err := exec.LookPath("ioreg"); err != nil {
		return unsupportedIdleProvider{}
	}
	return ioregProvider{}
}

// IdleDuration reads HIDIdleTime (nanoseconds) from the IOHIDSystem entry.
func (ioregProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		return time.Duration(nanos), nil
	}
	return 0, fmt.Errorf("ioreg: HIDIdleTime not found")
}
