package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultPIDFile is used when no pid path is configured.
const DefaultPIDFile = "/var/run/lokal.pid"

// PIDFile writes and removes the server's pid file.
type PIDFile struct {
	path string
}

// NewPIDFile resolves the pid path. Relative paths are anchored at the
// working directory when their parent exists, otherwise DefaultPIDFile is used.
func NewPIDFile(filename string) *PIDFile {
	return &PIDFile{path: resolvePIDPath(filename)}
}

func resolvePIDPath(filename string) string {
	if filename == "" {
		return DefaultPIDFile
	}
	if filepath.IsAbs(filename) {
		return filename
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		return DefaultPIDFile
	}
	if _, err := os.Stat(filepath.Dir(abs)); err != nil {
		return DefaultPIDFile
	}
	return abs
}

// Path returns the resolved pid file path
func (p *PIDFile) Path() string {
	return p.path
}

// Write stores the current process id
func (p *PIDFile) Write() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("failed to create PID directory: %w", err)
	}
	return os.WriteFile(p.path, []byte(fmt.Sprintf("%d\n", os.Getpid())), 0644)
}

// Read returns the pid stored in the file
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

// Remove deletes the pid file
func (p *PIDFile) Remove() error {
	return os.Remove(p.path)
}
