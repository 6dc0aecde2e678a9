package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// AppName names the config directory and the default spellers directory.
const AppName = "fstspell"

// SpellersDir is the directory under the config dir searched for archives.
const SpellersDir = "spellers"

// PathResolver locates speller archives and config files relative to the
// executable, the working directory and the user config directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	// Resolve any symlinks to get the actual binary location
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      getConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", execPath, pr.configDir)
	return pr, nil
}

// getConfigDir returns the appropriate config directory for the platform
func getConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// ResolveArchive finds the speller archive named by userPath. It tries, in
// order: the path itself, relative to the executable, relative to the working
// directory, and the spellers directory inside the config dir. A bare locale
// such as "se" also matches "se.zhfst".
func (pr *PathResolver) ResolveArchive(userPath string) (string, error) {
	for _, path := range pr.archiveCandidates(userPath) {
		if IsArchive(path) {
			log.Debugf("Resolved archive %s -> %s", userPath, path)
			return path, nil
		}
		log.Debugf("Archive candidate not valid: %s", path)
	}
	return "", os.ErrNotExist
}

func (pr *PathResolver) archiveCandidates(userPath string) []string {
	if filepath.IsAbs(userPath) {
		return []string{userPath}
	}
	names := []string{userPath}
	if filepath.Ext(userPath) == "" {
		names = append(names, userPath+".zhfst")
	}

	var candidates []string
	for _, name := range names {
		candidates = append(candidates, name, filepath.Join(pr.executableDir, name))
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, name))
		}
		candidates = append(candidates, filepath.Join(pr.configDir, SpellersDir, name))
	}
	return candidates
}

// IsArchive reports whether path looks like a zhfst file or a bundle dir.
func IsArchive(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}
	if stat.IsDir() {
		return FileExists(filepath.Join(path, "lexicon", "meta")) &&
			FileExists(filepath.Join(path, "mutator", "meta"))
	}
	return strings.EqualFold(filepath.Ext(path), ".zhfst")
}

// FindArchives lists the archives directly inside dir, sorted by name.
func FindArchives(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var found []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if IsArchive(path) {
			found = append(found, path)
		}
	}
	return found
}

// GetExecutableDir returns the directory containing the executable
func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetRuntimeInfo returns debug information about the current runtime environment
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"spellers_dir":    filepath.Join(pr.configDir, SpellersDir),
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}
