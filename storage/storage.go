// Package storage provides the object store behind cover images and
// chapter pages. Objects live in logical buckets and resolve to stable
// public URLs served by the web server.
package storage

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/MindDevsDavid/DragonScan/util/common"
)

// Bucket names mirror the document layout of the stored site data.
const (
	BucketCovers   = "portadas"
	BucketChapters = "capitulos"
)

// Store is the capability the services depend on. Put never overwrites an
// existing object; callers are responsible for unique names.
type Store interface {
	Put(ctx context.Context, bucket, objectPath string, r io.Reader) (string, error)
	Delete(bucket, objectPath string) error
	PublicURL(bucket, objectPath string) string
	Walk(bucket string, fn func(objectPath string, modTime time.Time) error) error
}

// ValidateObjectPath rejects empty, absolute and dot-escaping paths.
func ValidateObjectPath(objectPath string) error {
	if objectPath == "" {
		return common.NewError("empty object path")
	}
	if strings.HasPrefix(objectPath, "/") {
		return common.NewErrorf("absolute object path: %s", objectPath)
	}
	for _, part := range strings.Split(objectPath, "/") {
		if part == "" || part == "." || part == ".." {
			return common.NewErrorf("invalid object path: %s", objectPath)
		}
	}
	return nil
}
