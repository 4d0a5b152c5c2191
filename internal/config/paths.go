// Package config resolves the process-wide configuration directory and
// reads/writes the configuration layer schema shared by the global scope
// and every directory scope.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkronstrom/hawk-hooks-sub000/internal/hawkerr"
	"github.com/pkronstrom/hawk-hooks-sub000/pkg/logger"
)

var log = logger.New("hawk:config")

const envConfigDir = "HAWK_CONFIG_DIR"

// Paths resolves every well-known location under a single configuration
// root. It is resolved once at process startup and passed explicitly
// through the call graph; there is no package-level mutable state.
type Paths struct {
	root string
}

// ResolveGlobal resolves the global configuration root from HAWK_CONFIG_DIR,
// falling back to os.UserConfigDir()/hawk.
func ResolveGlobal() (Paths, error) {
	if dir := os.Getenv(envConfigDir); dir != "" {
		return Paths{root: dir}, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, hawkerr.Wrap("config.ResolveGlobal", err)
	}
	return Paths{root: filepath.Join(base, "hawk")}, nil
}

// Local returns the paths for an unregistered-local directory scope rooted
// at dir/.hawk.
func Local(dir string) Paths {
	return Paths{root: filepath.Join(dir, ".hawk")}
}

func (p Paths) Root() string        { return p.root }
func (p Paths) ConfigFile() string   { return filepath.Join(p.root, "config.yaml") }
func (p Paths) PackagesFile() string { return filepath.Join(p.root, "packages.yaml") }
func (p Paths) ProjectsFile() string { return filepath.Join(p.root, "projects.yaml") }
func (p Paths) RegistryDir() string  { return filepath.Join(p.root, "registry") }
func (p Paths) RunnersDir() string   { return filepath.Join(p.root, "runners") }
func (p Paths) SyncCacheDir() string { return filepath.Join(p.root, "sync_cache") }
func (p Paths) ProfilesDir() string  { return filepath.Join(p.root, "registry", "profiles") }
func (p Paths) ProfileFile(name string) string {
	return filepath.Join(p.ProfilesDir(), name+".yaml")
}

// EnsureDirs creates every directory the global scope needs.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.root, p.RegistryDir(), p.RunnersDir(), p.SyncCacheDir(), p.ProfilesDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return hawkerr.Wrap("config.EnsureDirs", err)
		}
	}
	return nil
}
