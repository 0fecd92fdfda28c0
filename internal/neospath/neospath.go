// Package neospath finds NeosVR installation directories.
package neospath

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/logging"
)

// Relative location of Neos inside a Steam library.
var steamAppDir = filepath.Join("steamapps", "common", "NeosVR")

var vdfPathLine = regexp.MustCompile(`^\s*"path"\s+"(.*)"\s*$`)

// Resolver probes well-known install locations. The zero value probes the
// current user's platform defaults.
type Resolver struct {
	// Home overrides the user's home directory.
	Home string
	// GOOS overrides runtime.GOOS.
	GOOS string
	// Getenv overrides os.Getenv.
	Getenv func(string) string
	// CustomDir is a user-chosen install directory, probed after the defaults.
	CustomDir string
	// IsDir overrides the filesystem check.
	IsDir func(string) bool
	// ReadFile overrides os.ReadFile for Steam library manifests.
	ReadFile func(string) ([]byte, error)
}

// Resolve returns existing install directories in priority order: platform
// defaults, then extra Steam libraries, then CustomDir. An empty result means
// no installation was found.
func (r *Resolver) Resolve() []string {
	var found []string
	seen := make(map[string]bool)
	add := func(source, dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if seen[dir] {
			return
		}
		seen[dir] = true
		if !r.isDir(dir) {
			logging.Debugf("Verbose: probe miss source=%s dir=%q\n", source, dir)
			return
		}
		// ~/.steam/steam is usually a symlink to ~/.local/share/Steam.
		if real, err := filepath.EvalSymlinks(dir); err == nil && real != dir {
			if seen[real] {
				logging.Debugf("Verbose: probe duplicate source=%s dir=%q real=%q\n", source, dir, real)
				return
			}
			seen[real] = true
		}
		logging.Debugf("Verbose: probe hit source=%s dir=%q\n", source, dir)
		found = append(found, dir)
	}

	roots := r.steamRoots()
	for _, root := range roots {
		add("default", filepath.Join(root, steamAppDir))
	}
	for _, dir := range r.fixedDirs() {
		add("default", dir)
	}
	for _, root := range roots {
		for _, lib := range r.libraryFolders(root) {
			add("steam-library", filepath.Join(lib, steamAppDir))
		}
	}
	add("custom", strings.TrimSpace(r.CustomDir))

	return found
}

// steamRoots lists Steam client roots for the platform, most common first.
func (r *Resolver) steamRoots() []string {
	home := r.home()
	switch r.goos() {
	case "windows":
		var roots []string
		for _, key := range []string{"ProgramFiles(x86)", "ProgramFiles"} {
			if base := r.getenv(key); base != "" {
				roots = append(roots, filepath.Join(base, "Steam"))
			}
		}
		return roots
	case "darwin":
		if home == "" {
			return nil
		}
		return []string{filepath.Join(home, "Library", "Application Support", "Steam")}
	default:
		if home == "" {
			return nil
		}
		return []string{
			filepath.Join(home, ".local", "share", "Steam"),
			filepath.Join(home, ".steam", "steam"),
			filepath.Join(home, ".steam", "root"),
			filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", "data", "Steam"),
		}
	}
}

// fixedDirs lists non-Steam default locations.
func (r *Resolver) fixedDirs() []string {
	if r.goos() == "windows" {
		return []string{`C:\Neos\app`}
	}
	return nil
}

// libraryFolders reads the extra library paths from a Steam root's
// libraryfolders.vdf. Unreadable manifests are skipped.
func (r *Resolver) libraryFolders(root string) []string {
	manifest := filepath.Join(root, "steamapps", "libraryfolders.vdf")
	data, err := r.readFile(manifest)
	if err != nil {
		return nil
	}
	return ParseLibraryFolders(string(data))
}

// ParseLibraryFolders extracts the "path" values from a libraryfolders.vdf
// document, unescaping doubled backslashes.
func ParseLibraryFolders(doc string) []string {
	var paths []string
	for _, line := range strings.Split(doc, "\n") {
		m := vdfPathLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		p := strings.ReplaceAll(m[1], `\\`, `\`)
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func (r *Resolver) home() string {
	if r.Home != "" {
		return r.Home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

func (r *Resolver) goos() string {
	if r.GOOS != "" {
		return r.GOOS
	}
	return runtime.GOOS
}

func (r *Resolver) getenv(key string) string {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.Getenv(key)
}

func (r *Resolver) isDir(p string) bool {
	if r.IsDir != nil {
		return r.IsDir(p)
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

func (r *Resolver) readFile(p string) ([]byte, error) {
	if r.ReadFile != nil {
		return r.ReadFile(p)
	}
	return os.ReadFile(p)
}

// ModDir is where the NeosPlus package is unpacked inside an installation.
func ModDir(installPath string) string {
	return filepath.Join(installPath, "Libraries", "NeosPlus")
}

// ModDLL is the assembly passed to -LoadAssembly.
func ModDLL(installPath string) string {
	return filepath.Join(ModDir(installPath), "NeosPlus.dll")
}

// Executable is the Neos binary inside an installation.
func Executable(installPath string) string {
	return filepath.Join(installPath, "neos.exe")
}
