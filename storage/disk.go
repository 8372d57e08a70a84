package storage

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/MindDevsDavid/DragonScan/util/common"
)

// DiskStore keeps objects on the local filesystem under root/{bucket}/...
// and exposes them under baseURL, which the web server serves read-only.
type DiskStore struct {
	root    string
	baseURL string
}

func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	for _, bucket := range []string{BucketCovers, BucketChapters} {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o750); err != nil {
			return nil, err
		}
	}
	return &DiskStore{root: root, baseURL: baseURL}, nil
}

func (s *DiskStore) Put(ctx context.Context, bucket, objectPath string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := ValidateObjectPath(objectPath); err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.root, bucket, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return "", err
	}

	// O_EXCL keeps object locations immutable once written.
	dst, err := os.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		if os.IsExist(err) {
			return "", common.NewErrorf("object already exists: %s/%s", bucket, objectPath)
		}
		return "", err
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		os.Remove(fullPath)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(fullPath)
		return "", err
	}

	return s.PublicURL(bucket, objectPath), nil
}

func (s *DiskStore) Delete(bucket, objectPath string) error {
	if err := ValidateObjectPath(objectPath); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, bucket, filepath.FromSlash(objectPath)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) PublicURL(bucket, objectPath string) string {
	return s.baseURL + "/" + bucket + "/" + objectPath
}

// Walk visits every object in the bucket with its slash-separated path.
func (s *DiskStore) Walk(bucket string, fn func(objectPath string, modTime time.Time) error) error {
	bucketRoot := filepath.Join(s.root, bucket)
	return filepath.WalkDir(bucketRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(bucketRoot, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel), info.ModTime())
	})
}
