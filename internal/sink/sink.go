package sink

import (
	"context"
	"fmt"
	"golfexport/internal/components/telemetry"
	"io"
	"os"
	"path/filepath"
)

const (
	report_dir_save    = "dir.save"
	report_writer_save = "writer.save"
)

// Sink receives a finished export and saves it, it returns where the file
// ended up.
type Sink interface {
	Save(ctx context.Context, filename string, content []byte) (location string, err error)
}

// Dir saves exports as files in a directory.
type Dir struct {
	dir string
	tel telemetry.API
}

func NewDir(dir string, tel telemetry.API) Dir {
	if tel == nil {
		tel = telemetry.NoopAPI{}
	}
	return Dir{dir: dir, tel: telemetry.NewScopedAPI("sink", tel)}
}

// Save writes to a temporary file first and renames it into place, so an
// interrupted save never leaves a partial CSV under the final name.
func (d Dir) Save(ctx context.Context, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if filename == "" || filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	d.tel.ReportDebug(report_dir_save, "started", d.dir, filename)

	err := os.MkdirAll(d.dir, 0755)
	if err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(d.dir, "."+filename+".*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(content)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	err = tmp.Close()
	if err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return "", err
	}

	target := filepath.Join(d.dir, filename)
	err = os.Rename(tmp.Name(), target)
	if err != nil {
		return "", fmt.Errorf("rename into place: %w", err)
	}

	d.tel.ReportDebug(report_dir_save, "completed", target, len(content))
	return target, nil
}

// Writer streams exports to an io.Writer, typically stdout.
type Writer struct {
	w   io.Writer
	tel telemetry.API
}

func NewWriter(w io.Writer, tel telemetry.API) Writer {
	if tel == nil {
		tel = telemetry.NoopAPI{}
	}
	return Writer{w: w, tel: telemetry.NewScopedAPI("sink", tel)}
}

func (s Writer) Save(ctx context.Context, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, err := s.w.Write(content)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", filename, err)
	}
	s.tel.ReportDebug(report_writer_save, "completed", filename, len(content))
	return "-", nil
}
