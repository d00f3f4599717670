package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"github.com/gabriel-vasile/mimetype"
)

// UploadResult identifies a stored media object
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

// MediaStore keeps user media in a Cloud Storage bucket
type MediaStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewMediaStore creates a MediaStore for the given bucket
func NewMediaStore(bucket *storage.BucketHandle, bucketName string) *MediaStore {
	return &MediaStore{bucket: bucket, bucketName: bucketName}
}

// UploadFile writes blob to path. The object name doubles as its public id.
func (m *MediaStore) UploadFile(ctx context.Context, blob []byte, path string) (*UploadResult, error) {
	w := m.bucket.Object(path).NewWriter(ctx)
	w.ContentType = mimetype.Detect(blob).String()
	w.CacheControl = "public, max-age=31536000"

	if _, err := w.Write(blob); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing %s: %w", path, err)
	}

	return &UploadResult{
		PublicID:  path,
		SecureURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", m.bucketName, (&url.URL{Path: path}).EscapedPath()),
	}, nil
}

// DeleteFile removes the object; deleting a missing object is not an error
func (m *MediaStore) DeleteFile(ctx context.Context, publicID string) error {
	err := m.bucket.Object(publicID).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting %s: %w", publicID, err)
	}
	return nil
}
