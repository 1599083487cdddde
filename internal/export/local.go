package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DirGallery saves exported avatars into a local directory. It is the
// gallery backend when no cloud bucket is configured.
type DirGallery struct {
	Dir string
}

func (g DirGallery) EnsurePermission() error {
	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return fmt.Errorf("gallery directory not writable: %w", err)
	}
	return nil
}

func (g DirGallery) Save(localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("opening exported file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(g.Dir, filepath.Base(localPath)))
	if err != nil {
		return fmt.Errorf("creating gallery file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copying into gallery: %w", err)
	}
	return nil
}

// NoShareSheet reports sharing as unavailable; used where no share
// surface exists.
type NoShareSheet struct{}

func (NoShareSheet) Available() bool { return false }

func (NoShareSheet) Share(localPath string) error { return fmt.Errorf("sharing unavailable") }
