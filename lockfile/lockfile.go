// Package lockfile implements .msgkit.lock, which records a checksum of the
// source text every translation was made from. When the source text of a
// translated message changes, extract flags the translation as stale.
//
// The lock file is stored next to .msgkit.yaml.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the lock file name.
const FileName = ".msgkit.lock"

// Version is the lock file format version.
const Version = 1

// LockFile maps catalog files to message ids to source checksums.
type LockFile struct {
	Version   int                          `yaml:"version"`
	Checksums map[string]map[string]string `yaml:"checksums"`

	mu   sync.Mutex
	path string
}

// Load reads the lock file from dir. A missing file is an empty lock file.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, FileName)
	lf := &LockFile{
		Version:   Version,
		Checksums: make(map[string]map[string]string),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if lf.Version > Version {
		return nil, fmt.Errorf("%s: unsupported version %d", path, lf.Version)
	}
	if lf.Checksums == nil {
		lf.Checksums = make(map[string]map[string]string)
	}
	return lf, nil
}

// Save writes the lock file. Targets without checksums are dropped.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	for target, keys := range lf.Checksums {
		if len(keys) == 0 {
			delete(lf.Checksums, target)
		}
	}
	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}
	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// TargetKey normalises a root-relative catalog path.
func TargetKey(relPath string) string {
	return filepath.ToSlash(relPath)
}

// Check compares source against the recorded checksum of id and records the
// new one. It reports true when a checksum was recorded before and differs.
// A first sighting is recorded and reported unchanged.
func (lf *LockFile) Check(target, id, source string) (stale bool) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	keys := lf.Checksums[target]
	if keys == nil {
		keys = make(map[string]string)
		lf.Checksums[target] = keys
	}
	sum := Hash(source)
	old, seen := keys[id]
	keys[id] = sum
	return seen && old != sum
}

// Forget drops the checksum of id, e.g. when its translation was removed.
func (lf *LockFile) Forget(target, id string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	delete(lf.Checksums[target], id)
}

// Clean removes checksums of ids no longer in current.
func (lf *LockFile) Clean(target string, current []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	keep := make(map[string]bool, len(current))
	for _, id := range current {
		keep[id] = true
	}
	for id := range lf.Checksums[target] {
		if !keep[id] {
			delete(lf.Checksums[target], id)
		}
	}
}

// Stats returns the number of targets and total checksums.
func (lf *LockFile) Stats() (targets, keys int) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	for _, m := range lf.Checksums {
		if len(m) > 0 {
			targets++
			keys += len(m)
		}
	}
	return
}
