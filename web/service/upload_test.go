package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/MindDevsDavid/DragonScan/util/common"

	"github.com/stretchr/testify/assert"
)

// fakeStore records writes and can be told to fail the nth Put.
type fakeStore struct {
	puts    []string
	deletes []string
	failAt  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{failAt: -1}
}

func (f *fakeStore) Put(_ context.Context, bucket, objectPath string, r io.Reader) (string, error) {
	if f.failAt == len(f.puts) {
		return "", common.NewError("disk full")
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.puts = append(f.puts, objectPath)
	return f.PublicURL(bucket, objectPath), nil
}

func (f *fakeStore) Delete(bucket, objectPath string) error {
	f.deletes = append(f.deletes, objectPath)
	return nil
}

func (f *fakeStore) PublicURL(bucket, objectPath string) string {
	return "/files/" + bucket + "/" + objectPath
}

func (f *fakeStore) Walk(bucket string, fn func(objectPath string, modTime time.Time) error) error {
	return nil
}

func stagedPage(t *testing.T, s *UploadService, name string, size int) *PendingPage {
	t.Helper()
	page, rejected, err := s.Stage(name, "image/png", int64(size), strings.NewReader(strings.Repeat("x", size)))
	assert.NoError(t, err)
	assert.Nil(t, rejected)
	return page
}

func TestStageRejectsNonImage(t *testing.T) {
	service := NewUploadService(newFakeStore())

	_, rejected, err := service.Stage("doc.pdf", "application/pdf", 100, strings.NewReader("x"))
	assert.NoError(t, err)
	assert.NotNil(t, rejected)
	assert.Equal(t, "doc.pdf", rejected.Name)
}

func TestStageRejectsOversize(t *testing.T) {
	service := NewUploadService(newFakeStore())

	_, rejected, err := service.Stage("big.png", "image/png", MaxPageBytes+1, strings.NewReader("x"))
	assert.NoError(t, err)
	assert.NotNil(t, rejected)
}

func TestStageRejectsLyingDeclaredSize(t *testing.T) {
	service := NewUploadService(newFakeStore())

	// Declared size fits but the body does not.
	body := strings.NewReader(strings.Repeat("x", MaxPageBytes+1))
	_, rejected, err := service.Stage("big.png", "image/png", 100, body)
	assert.NoError(t, err)
	assert.NotNil(t, rejected)
}

func TestStageAcceptsImage(t *testing.T) {
	service := NewUploadService(newFakeStore())

	page := stagedPage(t, service, "page01.png", 2048)
	assert.NotEmpty(t, page.Id)
	assert.Equal(t, int64(2048), page.Size)
}

func TestMoveReordersPending(t *testing.T) {
	service := NewUploadService(newFakeStore())

	a := stagedPage(t, service, "a.png", 10)
	b := stagedPage(t, service, "b.png", 10)
	c := stagedPage(t, service, "c.png", 10)

	moved, err := service.Move([]*PendingPage{a, b, c}, 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, []string{"c.png", "a.png", "b.png"},
		[]string{moved[0].Name, moved[1].Name, moved[2].Name})

	_, err = service.Move([]*PendingPage{a, b, c}, 3, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestCommitChapterStoresPagesInOrder(t *testing.T) {
	setup()
	defer teardown()

	store := newFakeStore()
	service := NewUploadService(store)
	seriesService := SeriesService{}
	admin := adminActor(t)

	series, err := seriesService.Create(admin, "Torre Roja", "", "", "")
	assert.NoError(t, err)

	pending := []*PendingPage{
		stagedPage(t, service, "a.png", 10),
		stagedPage(t, service, "b.png", 10),
		stagedPage(t, service, "c.png", 10),
	}

	updated, err := service.CommitChapter(context.Background(), admin, series, "", pending)
	assert.NoError(t, err)

	chapters, err := updated.ChapterList()
	assert.NoError(t, err)
	assert.Len(t, chapters, 1)
	assert.Equal(t, DefaultChapterTitle(1), chapters[0].Title)
	assert.Len(t, chapters[0].Pages, 3)

	// Page URLs keep staging order; the index is baked into the name.
	for i, url := range chapters[0].Pages {
		assert.Contains(t, url, "capitulo-1/")
		assert.Contains(t, url, "_"+string(rune('0'+i))+"_")
	}
	assert.Len(t, store.puts, 3)
}

func TestCommitChapterEmpty(t *testing.T) {
	setup()
	defer teardown()

	service := NewUploadService(newFakeStore())
	seriesService := SeriesService{}
	admin := adminActor(t)

	series, err := seriesService.Create(admin, "Torre Roja", "", "", "")
	assert.NoError(t, err)

	_, err = service.CommitChapter(context.Background(), admin, series, "", nil)
	assert.ErrorIs(t, err, ErrEmptyChapter)
}

func TestCommitChapterRequiresAdmin(t *testing.T) {
	setup()
	defer teardown()

	store := newFakeStore()
	service := NewUploadService(store)
	seriesService := SeriesService{}
	profileService := ProfileService{}
	admin := adminActor(t)

	series, err := seriesService.Create(admin, "Torre Roja", "", "", "")
	assert.NoError(t, err)

	lector, err := profileService.Register("lector1", "", "secreto")
	assert.NoError(t, err)

	pending := []*PendingPage{stagedPage(t, service, "a.png", 10)}
	_, err = service.CommitChapter(context.Background(), lector, series, "", pending)
	assert.ErrorIs(t, err, ErrForbidden)

	// Denied before anything reached the store.
	assert.Empty(t, store.puts)

	_, _, err = service.UploadCover(context.Background(), nil,
		"portada.png", "image/png", 10, strings.NewReader("xxxxxxxxxx"))
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCommitChapterRollsBackOnFailure(t *testing.T) {
	setup()
	defer teardown()

	store := newFakeStore()
	store.failAt = 2
	service := NewUploadService(store)
	seriesService := SeriesService{}
	admin := adminActor(t)

	series, err := seriesService.Create(admin, "Torre Roja", "", "", "")
	assert.NoError(t, err)

	pending := []*PendingPage{
		stagedPage(t, service, "a.png", 10),
		stagedPage(t, service, "b.png", 10),
		stagedPage(t, service, "c.png", 10),
	}

	_, err = service.CommitChapter(context.Background(), admin, series, "", pending)

	var uploadErr *UploadError
	assert.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, 2, uploadErr.Index)

	// The two pages stored before the failure are removed again.
	assert.Equal(t, store.puts, store.deletes)
	assert.Len(t, store.deletes, 2)

	// The series is untouched.
	current, err := seriesService.Get(series.Id)
	assert.NoError(t, err)
	chapters, _ := current.ChapterList()
	assert.Empty(t, chapters)
	assert.Equal(t, series.Version, current.Version)
}
