package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/storage"
	"github.com/MindDevsDavid/DragonScan/util/random"

	"github.com/google/uuid"
)

// MaxPageBytes is the per-image size limit, matching the site's stated
// "PNG, JPG o WEBP (MAX. 5MB por imagen)" rule.
const MaxPageBytes = 5 << 20

// PendingPage is one staged image, held in memory until the whole batch is
// committed.
type PendingPage struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`

	data []byte
}

// RejectedFile explains why a staged file was refused. Rejections are
// reported per file instead of silently dropped.
type RejectedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UploadService stages page images, keeps them reorderable while a chapter
// is being composed, and commits the batch to the object store before the
// chapter is appended to its series.
type UploadService struct {
	store storage.Store

	authService    AuthService
	chapterService ChapterService
	seriesService  SeriesService
}

func NewUploadService(store storage.Store) *UploadService {
	return &UploadService{store: store}
}

// Stage validates one incoming file. It returns either a staged page or a
// rejection with its reason; err is reserved for read failures.
func (s *UploadService) Stage(name, contentType string, size int64, r io.Reader) (*PendingPage, *RejectedFile, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &RejectedFile{Name: name, Reason: fmt.Sprintf("unsupported content type %q", contentType)}, nil
	}
	if size > MaxPageBytes {
		return nil, &RejectedFile{Name: name, Reason: "image exceeds the 5MB limit"}, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxPageBytes+1))
	if err != nil {
		return nil, nil, err
	}
	if len(data) > MaxPageBytes {
		// Declared size lied; enforce the limit on actual bytes too.
		return nil, &RejectedFile{Name: name, Reason: "image exceeds the 5MB limit"}, nil
	}

	return &PendingPage{
		Id:          uuid.NewString(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		data:        data,
	}, nil, nil
}

// Move reorders staged pages prior to commit.
func (s *UploadService) Move(pending []*PendingPage, from, to int) ([]*PendingPage, error) {
	return reorderSlice(pending, from, to)
}

// pageObjectPath builds the storage location for one page. The scheme is
// deterministic and collision-free per upload:
// series/{seriesId}/capitulo-{number}/{timestamp}_{index}_{random}.{ext}
func pageObjectPath(seriesId, chapterNumber, index int, p *PendingPage) string {
	ext := strings.TrimPrefix(path.Ext(p.Name), ".")
	if ext == "" {
		ext = strings.TrimPrefix(p.ContentType, "image/")
	}
	return fmt.Sprintf("series/%d/capitulo-%d/%d_%d_%s.%s",
		seriesId, chapterNumber, time.Now().UnixMilli(), index, random.SeqLower(11), ext)
}

// CommitChapter uploads every staged page and only then appends the new
// chapter to the series. Page URLs keep staging order by index, never
// completion order. On a failed upload the pages already stored in this
// batch are removed again and the series is left unmodified.
func (s *UploadService) CommitChapter(ctx context.Context, actor *model.Profile, series *model.Series, title string, pending []*PendingPage) (*model.Series, error) {
	if err := s.authService.Authorize(actor, AccessAdmin); err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, ErrEmptyChapter
	}

	chapters, err := series.ChapterList()
	if err != nil {
		return nil, err
	}
	number := len(chapters) + 1

	objectPaths := make([]string, 0, len(pending))
	urls := make([]string, len(pending))
	for i, page := range pending {
		objectPath := pageObjectPath(series.Id, number, i, page)
		url, err := s.store.Put(ctx, storage.BucketChapters, objectPath, bytes.NewReader(page.data))
		if err != nil {
			s.rollback(objectPaths)
			return nil, &UploadError{Index: i, Cause: err}
		}
		objectPaths = append(objectPaths, objectPath)
		urls[i] = url
	}

	updated, err := s.chapterService.AppendChapter(chapters, title, urls)
	if err != nil {
		s.rollback(objectPaths)
		return nil, err
	}

	result, err := s.seriesService.ReplaceChapters(actor, series.Id, updated, series.Version)
	if err != nil {
		s.rollback(objectPaths)
		return nil, err
	}
	return result, nil
}

// UploadCover validates and stores a cover image, returning its public URL.
func (s *UploadService) UploadCover(ctx context.Context, actor *model.Profile, name, contentType string, size int64, r io.Reader) (string, *RejectedFile, error) {
	if err := s.authService.Authorize(actor, AccessAdmin); err != nil {
		return "", nil, err
	}

	page, rejected, err := s.Stage(name, contentType, size, r)
	if err != nil || rejected != nil {
		return "", rejected, err
	}

	objectPath := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), sanitizeFilename(page.Name))
	url, err := s.store.Put(ctx, storage.BucketCovers, objectPath, bytes.NewReader(page.data))
	if err != nil {
		return "", nil, err
	}
	return url, nil, nil
}

func (s *UploadService) rollback(objectPaths []string) {
	for _, objectPath := range objectPaths {
		if err := s.store.Delete(storage.BucketChapters, objectPath); err != nil {
			logger.Warning("rollback of uploaded page failed:", err)
		}
	}
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
