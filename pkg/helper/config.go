package helper

import (
	"os"
	"path/filepath"
)

// DefaultCfgDir is the system-wide fallback for configuration files.
const DefaultCfgDir = "/etc/lokal"

// GetCfgPath returns the path to the configuration file.
//
// Priority:
// 1. If filename is an absolute path, return it directly.
// 2. Check ./{filename} and ./configs/{filename}
// 3. Otherwise, fallback to /etc/lokal/{filename}
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}

	if filepath.IsAbs(filename) {
		return filename
	}

	for _, dir := range []string{".", "configs"} {
		if p := lookup(filepath.Join(dir, filename)); p != "" {
			return p
		}
	}

	return filepath.Join(DefaultCfgDir, filename)
}

func lookup(candidate string) string {
	if _, err := os.Stat(candidate); err != nil {
		return ""
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return ""
	}
	return abs
}
