package fs

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
)

type localFiles struct{}

// New creates a LocalFiles implementation backed by the OS filesystem.
func New() interfaces.LocalFiles {
	return &localFiles{}
}

func (f *localFiles) Stat(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to stat file", goerr.V("path", path))
	}
	return info.Size(), nil
}

func (f *localFiles) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read file", goerr.V("path", path))
	}
	return data, nil
}

// ContentType infers the MIME type from the file extension first, then by
// sniffing the content. Returns "" when neither yields a type.
func (f *localFiles) ContentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		return mt.String()
	}
	return ""
}
