package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/carlelieser/avatarmon/internal/models"
)

// userIDPattern restricts user ids used in file names; anything else
// is rejected rather than sanitized.
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.@-]+$`)

// FilePersister stores each user's state as one JSON file under a
// directory. It is the default backend when no database is configured.
type FilePersister struct {
	dir string
}

func NewFilePersister(dir string) (*FilePersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory %s: %w", dir, err)
	}
	return &FilePersister{dir: dir}, nil
}

// stateFile is the on-disk layout. The user state sits under a single
// key so the format can grow without renaming files.
type stateFile struct {
	User models.UserState `json:"user"`
}

func (p *FilePersister) path(userID string) (string, error) {
	if !userIDPattern.MatchString(userID) {
		return "", fmt.Errorf("invalid user id %q", userID)
	}
	return filepath.Join(p.dir, userID+".json"), nil
}

func (p *FilePersister) Load(userID string) (models.UserState, bool, error) {
	path, err := p.path(userID)
	if err != nil {
		return models.UserState{}, false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.UserState{}, false, nil
	}
	if err != nil {
		return models.UserState{}, false, fmt.Errorf("reading state file: %w", err)
	}
	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return models.UserState{}, false, fmt.Errorf("decoding state file: %w", err)
	}
	return file.User, true, nil
}

func (p *FilePersister) Save(userID string, state models.UserState) error {
	path, err := p.path(userID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(stateFile{User: state}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state file: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
