// Package export downloads finished avatars and hands them to a gallery
// or share destination. Failures collapse to a generic export error for
// the user; the concrete cause goes to the log.
package export

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/carlelieser/avatarmon/internal/apperrors"
)

// Gallery is the device photo library the exporter saves into.
// EnsurePermission runs before any download so a denial costs nothing.
type Gallery interface {
	EnsurePermission() error
	Save(localPath string) error
}

// ShareSheet hands a local file to the platform share surface.
type ShareSheet interface {
	Available() bool
	Share(localPath string) error
}

// Result is the outcome of one export. Error carries the user-facing
// message when Success is false.
type Result struct {
	Success  bool
	LocalURI string
	Error    string
}

type Exporter struct {
	gallery    Gallery
	sharer     ShareSheet
	httpClient *http.Client
	cacheDir   string
	now        func() time.Time
}

func NewExporter(gallery Gallery, sharer ShareSheet, cacheDir string) *Exporter {
	return &Exporter{
		gallery: gallery,
		sharer:  sharer,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cacheDir: cacheDir,
		now:      time.Now,
	}
}

// SaveToGallery downloads the avatar and saves it into the gallery.
// The permission check runs first; on denial nothing is downloaded.
func (e *Exporter) SaveToGallery(imageURL string) Result {
	if err := e.gallery.EnsurePermission(); err != nil {
		log.Printf("export: gallery permission: %v", err)
		return failure(apperrors.PermissionDenied)
	}

	localPath, err := e.download(imageURL)
	if err != nil {
		log.Printf("export: downloading %s: %v", imageURL, err)
		return failure(apperrors.ExportFailed)
	}

	if err := e.gallery.Save(localPath); err != nil {
		log.Printf("export: saving to gallery: %v", err)
		return failure(apperrors.ExportFailed)
	}

	return Result{Success: true, LocalURI: localPath}
}

// shareUnavailableMessage is the one export failure with its own
// wording; everything else collapses to the generic export error.
const shareUnavailableMessage = "Sharing is not available on this device"

// Share downloads the avatar and opens the share surface with it.
func (e *Exporter) Share(imageURL string) Result {
	if !e.sharer.Available() {
		log.Printf("export: sharing unavailable")
		return Result{Error: shareUnavailableMessage}
	}

	localPath, err := e.download(imageURL)
	if err != nil {
		log.Printf("export: downloading %s: %v", imageURL, err)
		return failure(apperrors.ExportFailed)
	}

	if err := e.sharer.Share(localPath); err != nil {
		log.Printf("export: sharing: %v", err)
		return failure(apperrors.ExportFailed)
	}

	return Result{Success: true, LocalURI: localPath}
}

// download fetches the image into the cache directory under a
// timestamped name and returns the local path.
func (e *Exporter) download(imageURL string) (string, error) {
	resp, err := e.httpClient.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("fetching image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching image: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(e.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	name := fmt.Sprintf("avatar-%d.png", e.now().UnixMilli())
	localPath := filepath.Join(e.cacheDir, name)

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("creating local file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("writing local file: %w", err)
	}
	return localPath, nil
}

func failure(code apperrors.Code) Result {
	return Result{Error: apperrors.Message(code)}
}
