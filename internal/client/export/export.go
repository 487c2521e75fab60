// Package export delivers rendered documents to a destination: a local
// directory or an S3-compatible bucket.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parceltrack/console/internal/filex"
)

// Sink stores a named document and reports where it ended up.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// DirSink writes documents under Dir, creating it on first use.
type DirSink struct {
	Dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{Dir: dir}
}

func (s *DirSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}

	dir, err := filex.EnsureDir(s.Dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid document name %q", name)
	}
	return nil
}
