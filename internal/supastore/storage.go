// Package supastore is the cloud gallery backend: exported avatars are
// uploaded into a Supabase storage bucket under a per-user prefix.
package supastore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := supabaseURL
	if len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadAvatar stores an avatar under users/{user_id}/avatars/{filename}
// and returns the storage path and its public URL.
func (s *StorageClient) UploadAvatar(userID, filename string, data []byte) (string, string, error) {
	storagePath := fmt.Sprintf("users/%s/avatars/%s", userID, filename)

	contentType := "image/png"
	upsert := true
	_, err := s.client.UploadFile(s.bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return storagePath, s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, storagePath)
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	return err
}

// DeleteAvatar removes one stored avatar by its exported filename.
func (s *StorageClient) DeleteAvatar(userID, filename string) error {
	return s.DeleteFile(fmt.Sprintf("users/%s/avatars/%s", userID, filename))
}

// DeleteUserAvatars removes every avatar stored for a user.
func (s *StorageClient) DeleteUserAvatars(userID string) error {
	prefix := fmt.Sprintf("users/%s/avatars/", userID)

	files, err := s.client.ListFiles(s.bucket, prefix, storage.FileSearchOptions{
		Limit: 1000,
	})
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}

	if len(files) > 0 {
		filePaths := make([]string, len(files))
		for i, file := range files {
			filePaths[i] = file.Name
		}
		_, err = s.client.RemoveFile(s.bucket, filePaths)
		if err != nil {
			return fmt.Errorf("failed to delete files: %w", err)
		}
	}

	return nil
}

// CloudGallery adapts the storage client to the exporter's gallery
// surface for one user.
type CloudGallery struct {
	storage *StorageClient
	userID  string
}

func NewCloudGallery(storage *StorageClient, userID string) *CloudGallery {
	return &CloudGallery{storage: storage, userID: userID}
}

// EnsurePermission verifies the bucket is reachable with the configured
// credentials before anything is downloaded.
func (g *CloudGallery) EnsurePermission() error {
	_, err := g.storage.client.ListFiles(g.storage.bucket, fmt.Sprintf("users/%s/", g.userID), storage.FileSearchOptions{
		Limit: 1,
	})
	if err != nil {
		return fmt.Errorf("bucket not accessible: %w", err)
	}
	return nil
}

// Save uploads the local file into the user's avatar prefix.
func (g *CloudGallery) Save(localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("reading local file: %w", err)
	}
	_, _, err = g.storage.UploadAvatar(g.userID, filepath.Base(localPath), data)
	return err
}
