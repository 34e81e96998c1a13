package report

import (
	"TagALog/internal/core/model"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Report is the payload handed to a Writer at the end of a run.
type Report struct {
	RunID              string
	GeneratedAt        time.Time
	TagCounts          model.TagCounts
	PortProtocolCounts model.PortProtocolCounts
	Diagnostics        model.Diagnostics
}

// Writer defines a generic interface for rendering a report.
type Writer interface {
	// Write renders rep to out.
	Write(out io.Writer, rep *Report) error
}

// WriteFile renders rep with w into path. The report is written to a
// temporary file in the same directory and renamed into place, so a failed
// write never leaves a partial report behind.
func WriteFile(path string, w Writer, rep *Report) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*")
	if err != nil {
		return fmt.Errorf("failed to create report file in '%s': %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = w.Write(tmp, rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}
