// Package file is a TOML-backed implementation of the config store.
// It holds persisted defaults for CLI flags; flags always win.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/JoLichtenfeld/ros2bag-tools/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const (
	defaultOutputDir       = "cropped_bags"
	defaultMaxSegmentBytes = 1024 * 1024 * 1024 // 1 GiB
)

// ConfigStore reads defaults from a TOML file. A missing file yields
// the built-in defaults.
type ConfigStore struct {
	filePath string
	data     fileData
}

type fileData struct {
	OutputDir       string `toml:"output_dir"`
	MaxSegmentBytes int64  `toml:"max_segment_bytes"`
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.ros2bag-tools/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".ros2bag-tools")
	}

	s := &ConfigStore{filePath: filepath.Join(configDir, "config.toml")}

	raw, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}
	return s, nil
}

// OutputDir returns the default directory for cropped bags.
func (s *ConfigStore) OutputDir() string {
	if s.data.OutputDir != "" {
		return s.data.OutputDir
	}
	return defaultOutputDir
}

// MaxSegmentBytes returns the default segment size cap.
func (s *ConfigStore) MaxSegmentBytes() int64 {
	if s.data.MaxSegmentBytes > 0 {
		return s.data.MaxSegmentBytes
	}
	return defaultMaxSegmentBytes
}
