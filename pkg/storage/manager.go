package storage

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/roastery/config"
	"github.com/shashiranjanraj/roastery/pkg/logger"
)

// ─── Manager ──────────────────────────────────────────────────────────────────

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager.
// Call once at application startup (internal/server).
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.StorageDefault()

	// Always boot local disk.
	disks["local"] = newLocalDisk()

	// Boot S3 disk only if a bucket is configured.
	if creds := s3CredentialsFromConfig(); creds.Bucket != "" {
		d, err := NewS3Disk(creds)
		if err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			disks["s3"] = d
		}
	}

	if _, ok := disks[defaultDisk]; !ok {
		logger.Warn("storage: default disk not configured, falling back to local", "disk", defaultDisk)
		defaultDisk = "local"
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("storage: disk %q is not configured", name))
	}
	return d
}

// Default returns the disk selected by STORAGE_DISK.
func Default() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// DefaultName returns the configured default disk name.
func DefaultName() string {
	managerMu.RLock()
	defer managerMu.RUnlock()
	return defaultDisk
}

// RegisterDisk plugs in a custom Disk implementation at boot time.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}

// LocalRoot returns the local driver's root directory when the named disk is
// the local one, for mounting the /storage file server. ok is false for
// non-local disks.
func LocalRoot(name string) (string, bool) {
	managerMu.RLock()
	d, exists := disks[name]
	managerMu.RUnlock()
	if !exists {
		return "", false
	}
	ld, ok := d.(*localDisk)
	if !ok {
		return "", false
	}
	return ld.Root(), true
}
