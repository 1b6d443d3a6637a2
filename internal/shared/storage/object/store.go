package object

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"

	"resume-matcher/internal/shared/util"
)

// Object describes a stored upload.
type Object struct {
	Key         string
	Size        int64
	ContentType string
}

// ObjectStore defines the contract for archiving uploaded files.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, data []byte) (Object, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}

// KeyFor returns the storage key of data uploaded as fileName. Identical
// uploads share a key.
func KeyFor(fileName string, data []byte) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.ContentKey(data), name), nil
}

// DetectContentType sniffs the MIME type of data.
func DetectContentType(data []byte) string {
	n := len(data)
	if n > 512 {
		n = 512
	}
	return http.DetectContentType(data[:n])
}
