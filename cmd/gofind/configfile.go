package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	gofind "github.com/ncw-find/gofind/fs"
)

// configFileOverlay is the subset of fs.Config a YAML file may set,
// the way the teacher's own fs/config supports a YAML/INI config file
// alongside command-line flags. A field the file sets replaces whatever
// value the flags produced; a field the file leaves out keeps it.
type configFileOverlay struct {
	IncludeHidden  *bool  `yaml:"include_hidden"`
	FollowSymlinks *bool  `yaml:"follow_symlinks"`
	SameFilesystem *bool  `yaml:"same_filesystem"`
	Threads        *int   `yaml:"threads"`
	MaxDepth       *int32 `yaml:"max_depth"`
	Colouring      *bool  `yaml:"colouring"`
	ShowErrors     *bool  `yaml:"show_errors"`
}

// applyConfigFileOverlay loads path as YAML and merges any set fields
// into cfg. Only fields the overlay explicitly sets are applied, and
// each one overrides the value already in cfg, including a value given
// explicitly on the command line.
func applyConfigFileOverlay(cfg *gofind.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}

	var overlay configFileOverlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return errors.Wrapf(err, "parsing config file %s", path)
	}

	if overlay.IncludeHidden != nil {
		cfg.IncludeHidden = *overlay.IncludeHidden
	}
	if overlay.FollowSymlinks != nil {
		cfg.FollowSymlinks = *overlay.FollowSymlinks
	}
	if overlay.SameFilesystem != nil {
		cfg.SameFilesystem = *overlay.SameFilesystem
	}
	if overlay.Threads != nil {
		cfg.Threads = *overlay.Threads
	}
	if overlay.MaxDepth != nil {
		cfg.MaxDepth = *overlay.MaxDepth
	}
	if overlay.Colouring != nil {
		cfg.Colouring = *overlay.Colouring
	}
	if overlay.ShowErrors != nil {
		cfg.ShowErrors = *overlay.ShowErrors
	}
	return nil
}
