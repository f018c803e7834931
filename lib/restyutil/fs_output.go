package restyutil

import (
	devenv "golfexport/dev/env"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes every captured HTTP exchange to its own file
// under a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears and recreates dir, dir may start with
// <dev_state> to place it in the workspace state directory.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	dir, err := devenv.ResolvePath(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Dir() string {
	return o.directory
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id+".txt"), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
