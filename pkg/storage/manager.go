package storage

import (
	"fmt"
	"io"
	"sync"

	"github.com/rsharma-dev/inventra/config"
)

var (
	mu          sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect initialises the configured disks. The local disk is always
// available; the s3 disk is registered only when S3_BUCKET is set.
// STORAGE_DISK selects which one the package-level helpers use.
func Connect() error {
	mu.Lock()
	defer mu.Unlock()

	disks["local"] = newLocalDisk()

	if config.StorageS3Bucket() != "" {
		s3d, err := newS3Disk()
		if err != nil {
			return err
		}
		disks["s3"] = s3d
	}

	defaultDisk = config.StorageDefault()
	if _, ok := disks[defaultDisk]; !ok {
		return fmt.Errorf("storage: default disk %q is not configured", defaultDisk)
	}
	return nil
}

// Use returns a named disk, or an error if it was never configured.
func Use(name string) (Disk, error) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := disks[name]
	if !ok {
		return nil, fmt.Errorf("storage: unknown disk %q", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK.
func Default() Disk {
	mu.RLock()
	defer mu.RUnlock()
	return disks[defaultDisk]
}

// DefaultIsLocal reports whether uploads are served from the local
// filesystem, in which case the server mounts a static file route.
func DefaultIsLocal() bool {
	mu.RLock()
	defer mu.RUnlock()
	return defaultDisk == "local"
}

// LocalRoot returns the directory backing the local disk.
func LocalRoot() string {
	mu.RLock()
	defer mu.RUnlock()
	if d, ok := disks["local"].(*localDisk); ok {
		return d.Root()
	}
	return config.StorageLocalRoot()
}

// ─── Default-disk helpers ───

func Put(path string, content []byte) error    { return Default().Put(path, content) }
func PutStream(path string, r io.Reader) error { return Default().PutStream(path, r) }
func URL(path string) string                   { return Default().URL(path) }
func Delete(path string) error                 { return Default().Delete(path) }

func GetStream(path string) (io.ReadCloser, error) { return Default().GetStream(path) }
