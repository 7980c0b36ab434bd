// Package storage keeps uploaded post images and serves them by public URL.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	PostImagesBucket = "post-images"
	MaxImageBytes    = 5 << 20
)

var (
	ErrInvalidDataURI   = errors.New("invalid data URI")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrInvalidPath      = errors.New("invalid object path")
	ErrImageTooLarge    = errors.New("image exceeds 5MB")
)

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Bucket stores objects under slash separated paths.
type Bucket interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	PublicURL(name string) string
}

// DiskBucket stores objects as files below root.
type DiskBucket struct {
	root    string
	baseURL string
}

func NewDiskBucket(root, baseURL string) (*DiskBucket, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket directory: %w", err)
	}
	return &DiskBucket{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (b *DiskBucket) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target, err := b.resolve(name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to close object: %w", err)
	}

	return name, nil
}

func (b *DiskBucket) PublicURL(name string) string {
	return b.baseURL + "/" + strings.TrimPrefix(name, "/")
}

// Handler serves stored objects; mount it under the public URL prefix.
func (b *DiskBucket) Handler() http.Handler {
	return http.FileServer(http.Dir(b.root))
}

func (b *DiskBucket) resolve(name string) (string, error) {
	clean := path.Clean("/" + name)
	if clean == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return filepath.Join(b.root, filepath.FromSlash(clean)), nil
}

// ObjectName places an upload under the owner's folder with a unique name.
func ObjectName(userID int64, ext string) string {
	return fmt.Sprintf("%s/%d/%s.%s", PostImagesBucket, userID, uuid.NewString(), ext)
}

// DecodeDataURI splits a base64 data URI into its media type and payload.
func DecodeDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}

	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("%w: only base64 payloads are accepted", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}

	return contentType, data, nil
}

// SaveImage stores an image given either as a data URI or as an already
// public URL, and returns the URL to record on the post. Plain URLs are
// returned unchanged.
func SaveImage(ctx context.Context, bucket Bucket, userID int64, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}

	contentType, data, err := DecodeDataURI(image)
	if err != nil {
		return "", err
	}

	if len(data) > MaxImageBytes {
		return "", ErrImageTooLarge
	}

	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, contentType)
	}

	name, err := bucket.Upload(ctx, ObjectName(userID, ext), contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return bucket.PublicURL(name), nil
}
