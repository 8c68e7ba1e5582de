// Package media stores user-submitted files in Cloudinary and hands back
// public URLs.
package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"misimuslim/pkg/utils"
)

// Store wraps the Cloudinary upload API
type Store struct {
	client *cloudinary.Cloudinary
}

// NewStore creates a Cloudinary-backed media store
func NewStore(cloudName, apiKey, apiSecret string) (*Store, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &Store{client: client}, nil
}

// UploadImage stores an image under the given folder and returns its URL
func (s *Store) UploadImage(ctx context.Context, data []byte, folder string) (string, error) {
	return s.upload(ctx, data, folder, "image")
}

// UploadAudio stores an audio file under the given folder and returns its
// URL. Cloudinary treats audio as the video resource type.
func (s *Store) UploadAudio(ctx context.Context, data []byte, folder string) (string, error) {
	return s.upload(ctx, data, folder, "video")
}

func (s *Store) upload(ctx context.Context, data []byte, folder, resourceType string) (string, error) {
	ctx, cancel := utils.WithUploadTimeout(ctx)
	defer cancel()

	resp, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary returned no url")
	}
	return resp.SecureURL, nil
}
