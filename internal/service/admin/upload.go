package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"foodorder/internal/domain"
	"github.com/google/uuid"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Uploads stores images in a directory served under /uploads.
type Uploads struct {
	dir string
	now func() time.Time
}

// NewUploads creates dir if needed.
func NewUploads(dir string) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploads{dir: dir, now: time.Now}, nil
}

// Dir is the directory files are written to.
func (u *Uploads) Dir() string { return u.dir }

// Save writes r under a unique name that keeps the original extension and
// returns that name.
func (u *Uploads) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !imageExtensions[ext] {
		return "", domain.Invalid("image", "unsupported file type %q", ext)
	}
	name := fmt.Sprintf("%d-%s%s", u.now().UnixMilli(), uuid.NewString()[:8], ext)

	f, err := os.OpenFile(filepath.Join(u.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// Upload stores an image and returns its path below /uploads.
func (s *Service) Upload(_ context.Context, originalName string, r io.Reader) (string, error) {
	if s.uploads == nil {
		return "", ErrUploadsDisabled
	}
	name, err := s.uploads.Save(originalName, r)
	if err != nil {
		return "", err
	}
	s.logger.Infof("admin: uploaded file=%s", name)
	return "/uploads/" + name, nil
}
