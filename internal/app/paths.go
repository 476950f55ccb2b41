package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .siunit/ project directory.
type Paths struct {
	Root   string // .siunit/
	Config string // .siunit/config.yaml
	Units  string // .siunit/units.txt
	Store  string // .siunit/quantities.db

	LogDir   string // .siunit/log/
	WatchLog string // .siunit/log/watch.log
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".siunit")
	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yaml"),
		Units:  filepath.Join(root, "units.txt"),
		Store:  filepath.Join(root, "quantities.db"),

		LogDir:   filepath.Join(root, "log"),
		WatchLog: filepath.Join(root, "log", "watch.log"),
	}
}

// EnsureDirs creates all subdirectories under .siunit/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// migration defines a single file move from the old flat project layout.
type migration struct {
	oldName string // relative to the project root
	newPath string // absolute destination path
}

// Migrate moves files from the old flat layout (siunit.yaml, units.txt and
// siunit.db next to the project) into .siunit/. Returns the number of files
// moved. Idempotent: skips if source is missing or destination already exists.
func (p *Paths) Migrate() (int, error) {
	project := filepath.Dir(p.Root)
	moves := []migration{
		{"siunit.yaml", p.Config},
		{"units.txt", p.Units},
		{"siunit.db", p.Store},
	}

	count := 0
	for _, m := range moves {
		oldPath := filepath.Join(project, m.oldName)

		// Skip if source doesn't exist.
		if _, err := os.Stat(oldPath); err != nil {
			continue
		}

		// Don't overwrite existing destination.
		if _, err := os.Stat(m.newPath); err == nil {
			continue
		}

		if err := os.Rename(oldPath, m.newPath); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
