package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning is returned when another instance holds the lock.
var ErrAlreadyRunning = errors.New("workwell is already running")

const (
	lockPortMin = 20000
	lockPortMax = 39999
)

// InstanceLock keeps a loopback port bound for the life of the process so
// a second launch can detect the first.
type InstanceLock struct {
	listener net.Listener
}

// AcquireInstanceLock binds the port derived from appName.
func AcquireInstanceLock(appName string) (*InstanceLock, error) {
	listener, err := net.Listen("tcp", lockAddress(appName))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the lock. It is safe on a nil lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	return lock.listener.Close()
}

func lockAddress(appName string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	port := lockPortMin + int(hash.Sum32()%uint32(lockPortMax-lockPortMin+1))
	return fmt.Sprintf("127.0.0.1:%d", port)
}
