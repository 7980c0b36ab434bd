package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func TestDecodeDataURI(t *testing.T) {
	contentType, data, err := DecodeDataURI(pngDataURI())
	if err != nil {
		t.Fatalf("DecodeDataURI() error = %v", err)
	}
	if contentType != "image/png" || string(data) != string(pngBytes) {
		t.Errorf("got %q, %v", contentType, data)
	}

	for _, bad := range []string{
		"http://example.com/a.png",
		"data:image/png;base64",
		"data:text/plain,hello",
		"data:image/png;base64,!!!",
	} {
		if _, _, err := DecodeDataURI(bad); !errors.Is(err, ErrInvalidDataURI) {
			t.Errorf("DecodeDataURI(%q) error = %v", bad, err)
		}
	}
}

type brokenReader struct{ sent bool }

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, pngBytes), nil
	}
	return 0, io.ErrUnexpectedEOF
}

func TestUploadRemovesPartialObject(t *testing.T) {
	root := t.TempDir()
	bucket, err := NewDiskBucket(root, "/media")
	if err != nil {
		t.Fatalf("NewDiskBucket() error = %v", err)
	}

	_, err = bucket.Upload(context.Background(), "post-images/1/x.png", "image/png", &brokenReader{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("Upload() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "post-images", "1", "x.png")); !os.IsNotExist(err) {
		t.Errorf("partial object left on disk: %v", err)
	}
}

func TestSaveImageWritesToBucket(t *testing.T) {
	root := t.TempDir()
	bucket, err := NewDiskBucket(root, "/media/")
	if err != nil {
		t.Fatalf("NewDiskBucket() error = %v", err)
	}

	url, err := SaveImage(context.Background(), bucket, 42, pngDataURI())
	if err != nil {
		t.Fatalf("SaveImage() error = %v", err)
	}
	if !strings.HasPrefix(url, "/media/post-images/42/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("url = %q", url)
	}

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(url, "/media/"))))
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(stored) != string(pngBytes) {
		t.Errorf("stored bytes = %v", stored)
	}

	srv := httptest.NewServer(http.StripPrefix("/media/", bucket.Handler()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + url)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSaveImagePassesThroughURLs(t *testing.T) {
	bucket, _ := NewDiskBucket(t.TempDir(), "/media")

	got, err := SaveImage(context.Background(), bucket, 1, "https://cdn.example.com/a.png")
	if err != nil || got != "https://cdn.example.com/a.png" {
		t.Errorf("SaveImage() = %q, %v", got, err)
	}
}

func TestSaveImageRejectsUnsupportedType(t *testing.T) {
	bucket, _ := NewDiskBucket(t.TempDir(), "/media")
	uri := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("%PDF"))

	if _, err := SaveImage(context.Background(), bucket, 1, uri); !errors.Is(err, ErrUnsupportedImage) {
		t.Errorf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestDiskBucketRejectsTraversal(t *testing.T) {
	bucket, _ := NewDiskBucket(t.TempDir(), "/media")

	_, err := bucket.Upload(context.Background(), "../escape.png", "image/png", strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidPath) {
		t.Errorf("expected ErrInvalidPath, got %v", err)
	}
}

func TestSaveImageRejectsLargeImages(t *testing.T) {
	bucket, _ := NewDiskBucket(t.TempDir(), "/media")
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(make([]byte, MaxImageBytes+1))

	if _, err := SaveImage(context.Background(), bucket, 1, uri); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}
