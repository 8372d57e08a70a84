package job

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/storage"
	"github.com/MindDevsDavid/DragonScan/web/service"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func setup() {
	logger.InitLogger(logging.ERROR)
	os.Remove("test.db")
	database.InitDB("test.db")
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func adminActor(t *testing.T) *model.Profile {
	t.Helper()
	profile := &model.Profile{}
	err := database.GetDB().Where("username = ?", "admin").First(profile).Error
	assert.NoError(t, err)
	return profile
}

// age pushes an object's mtime past the sweep grace period.
func age(t *testing.T, root, bucket, objectPath string) {
	t.Helper()
	old := time.Now().Add(-48 * time.Hour)
	full := filepath.Join(root, bucket, filepath.FromSlash(objectPath))
	assert.NoError(t, os.Chtimes(full, old, old))
}

func TestOrphanSweep(t *testing.T) {
	setup()
	defer teardown()

	root := t.TempDir()
	store, err := storage.NewDiskStore(root, "/files")
	assert.NoError(t, err)
	ctx := context.Background()

	seriesService := service.SeriesService{}
	chapterService := service.ChapterService{}

	keptURL, err := store.Put(ctx, storage.BucketChapters, "series/1/capitulo-1/a.png", strings.NewReader("x"))
	assert.NoError(t, err)
	_, err = store.Put(ctx, storage.BucketChapters, "series/1/capitulo-1/b.png", strings.NewReader("x"))
	assert.NoError(t, err)
	age(t, root, storage.BucketChapters, "series/1/capitulo-1/a.png")
	age(t, root, storage.BucketChapters, "series/1/capitulo-1/b.png")

	admin := adminActor(t)
	series, err := seriesService.Create(admin, "Torre Roja", "", "", "")
	assert.NoError(t, err)
	chapters, err := chapterService.AppendChapter(nil, "", []string{keptURL})
	assert.NoError(t, err)
	_, err = seriesService.ReplaceChapters(admin, series.Id, chapters, series.Version)
	assert.NoError(t, err)

	NewOrphanAssetsJob(store).Run()

	remaining := make([]string, 0)
	err = store.Walk(storage.BucketChapters, func(objectPath string, _ time.Time) error {
		remaining = append(remaining, objectPath)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"series/1/capitulo-1/a.png"}, remaining)
}

func TestOrphanSweepHonorsGracePeriod(t *testing.T) {
	setup()
	defer teardown()

	root := t.TempDir()
	store, err := storage.NewDiskStore(root, "/files")
	assert.NoError(t, err)

	// A fresh unreferenced object could be an upload whose chapter has not
	// been committed yet. It must survive the sweep.
	_, err = store.Put(context.Background(), storage.BucketChapters,
		"series/9/capitulo-1/fresh.png", strings.NewReader("x"))
	assert.NoError(t, err)

	NewOrphanAssetsJob(store).Run()

	count := 0
	err = store.Walk(storage.BucketChapters, func(string, time.Time) error {
		count++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOrphanSweepKeepsCovers(t *testing.T) {
	setup()
	defer teardown()

	root := t.TempDir()
	store, err := storage.NewDiskStore(root, "/files")
	assert.NoError(t, err)

	coverURL, err := store.Put(context.Background(), storage.BucketCovers,
		"1234_portada.png", strings.NewReader("x"))
	assert.NoError(t, err)
	age(t, root, storage.BucketCovers, "1234_portada.png")

	seriesService := service.SeriesService{}
	_, err = seriesService.Create(adminActor(t), "Torre Roja", "", "", coverURL)
	assert.NoError(t, err)

	NewOrphanAssetsJob(store).Run()

	count := 0
	err = store.Walk(storage.BucketCovers, func(string, time.Time) error {
		count++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
