package downloads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	SinkFile = "file"
	SinkS3   = "s3"

	DefaultDir = "downloads"
)

var unsafeNameChars = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

type FileSink struct {
	dir string
}

func FileSinkFactory(_ context.Context, settings SinkSettings) (Sink, error) {
	return NewFileSink(settings.Dir), nil
}

func NewFileSink(dir string) *FileSink {
	if dir == "" {
		dir = DefaultDir
	}
	return &FileSink{dir: dir}
}

func (s *FileSink) Save(ctx context.Context, artifact *Artifact) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(s.dir, SafeFilename(artifact.Filename))
	if err := os.WriteFile(path, artifact.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", artifact.Filename, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	zerolog.Ctx(ctx).Info().
		Str("kind", string(artifact.Kind)).
		Str("path", absPath).
		Int("bytes", len(artifact.Data)).
		Msg("download saved")

	return absPath, nil
}

// SafeFilename keeps a download inside its target directory.
func SafeFilename(name string) string {
	name = unsafeNameChars.Replace(name)
	if name == "" || name == "." || name == ".." {
		return "download"
	}
	return name
}
