package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const stateDirPrefix = "<dev_state>"

var modName = regexp.MustCompile(`(?m)^module *([\w\-_./]+)$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == "golfexport"
}

// GetWorkspaceRoot walks up from the cwd to the directory holding this
// module's go.mod.
func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	root, err := filepath.Abs("/")
	if err != nil {
		return "", err
	}

	for currentdir != root {
		if !isWorkspaceRoot(currentdir) {
			currentdir = filepath.Dir(currentdir)
			continue
		}
		return currentdir, nil
	}

	return "", os.ErrNotExist
}

// StateDir is <workspace root>/dev/.state, or .golfexport in the cwd when
// running outside of the workspace (ex. an installed binary).
func StateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if os.IsNotExist(err) {
		return filepath.Abs(".golfexport")
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state"), nil
}

// ResolvePath replaces a leading <dev_state> with StateDir, other paths are
// returned unchanged.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, stateDirPrefix) {
		return path, nil
	}

	statedir, err := StateDir()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(statedir, 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimPrefix(strings.TrimPrefix(path, stateDirPrefix), "/")
	return filepath.Join(statedir, filepath.FromSlash(subpath)), nil
}
