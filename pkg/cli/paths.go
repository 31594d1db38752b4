package cli

import (
	"os"
	"path/filepath"
)

const (
	// DefaultBaseDir is the configuration directory under the home directory.
	DefaultBaseDir = ".beatsmith"
	// DefaultConfigFile is the configuration file name.
	DefaultConfigFile = "config.yaml"
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "BEATSMITH_CONFIG_DIR"
)

// Paths locates the beatsmith directory structure.
type Paths struct {
	// BaseDir is ~/.beatsmith or $BEATSMITH_CONFIG_DIR.
	BaseDir string
}

// NewPaths resolves the base directory from the environment.
func NewPaths() (*Paths, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return &Paths{BaseDir: dir}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{BaseDir: filepath.Join(home, DefaultBaseDir)}, nil
}

// ConfigFile returns the config file path.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir, DefaultConfigFile)
}

// LibraryDir is where the analysis library lives unless a context says
// otherwise.
func (p *Paths) LibraryDir() string {
	return filepath.Join(p.BaseDir, "library")
}

// EnsureBaseDir creates the base directory if it doesn't exist.
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir, 0755)
}
