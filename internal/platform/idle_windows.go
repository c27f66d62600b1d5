//go:build windows

package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type lastInputProvider struct{}

func newIdleProvider() IdleProvider {
	return lastInputProvider{}
}

func (lastInputProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	if result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info))); result == 0 {
		return 0, fmt.Errorf("GetLastInputInfo: %w", err)
	}
	// Both values are 32-bit tick counts; unsigned subtraction handles wraparound.
	now, _, _ := procGetTickCount.Call()
	idleMillis := uint32(now) - info.dwTime
	return time.Duration(idleMillis) * time.Millisecond, nil
}
