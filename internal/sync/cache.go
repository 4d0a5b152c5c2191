package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
)

// CacheEntry is the sync cache's per-(scope, tool) value: the desired-state
// hash and the adapter's capability fingerprint at the time of the last
// successful sync. A target is in-sync iff both still match.
type CacheEntry struct {
	DesiredHash           string `yaml:"desired_hash"`
	CapabilityFingerprint string `yaml:"capability_fingerprint"`
}

// CacheKey derives the stable cache key for a (scope, tool) target. The
// scope path is hashed rather than character-replaced, since substituting
// path separators could collide two distinct paths on case-sensitive or
// mixed-separator filesystems.
func CacheKey(scopePath, toolID string) string {
	h := sha256.Sum256([]byte(filepath.Clean(scopePath)))
	return hex.EncodeToString(h[:]) + "-" + toolID
}

func cacheFile(cacheDir, key string) string {
	return filepath.Join(cacheDir, key+".yaml")
}

func loadCacheEntry(cacheDir, key string) (CacheEntry, bool, error) {
	data, err := os.ReadFile(cacheFile(cacheDir, key))
	if os.IsNotExist(err) {
		return CacheEntry{}, false, nil
	}
	if err != nil {
		return CacheEntry{}, false, hawkerr.Wrap("sync.loadCacheEntry", err)
	}
	var e CacheEntry
	if err := yaml.Unmarshal(data, &e); err != nil {
		// A corrupt cache entry is treated as absent: the target resyncs
		// and overwrites it, rather than failing the whole sync.
		return CacheEntry{}, false, nil
	}
	return e, true, nil
}

func saveCacheEntry(cacheDir, key string, e CacheEntry) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return hawkerr.Wrap("sync.saveCacheEntry", err)
	}
	data, err := yaml.Marshal(e)
	if err != nil {
		return hawkerr.Wrap("sync.saveCacheEntry: marshal", err)
	}
	target := cacheFile(cacheDir, key)
	tmp := target + ".hawk-stage"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return hawkerr.Wrap("sync.saveCacheEntry: write", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return hawkerr.Wrap("sync.saveCacheEntry: rename", err)
	}
	return nil
}
