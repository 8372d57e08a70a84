package job

import (
	"time"

	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/storage"
	"github.com/MindDevsDavid/DragonScan/util/common"
	"github.com/MindDevsDavid/DragonScan/web/service"
)

// orphanGracePeriod keeps freshly written objects out of the sweep, so an
// upload that has not been committed to its series row yet is never
// collected mid-flight.
const orphanGracePeriod = 24 * time.Hour

// OrphanAssetsJob deletes stored images no series references anymore.
// Series and chapter deletion leave their assets behind on purpose; this
// job is the reclaim path.
type OrphanAssetsJob struct {
	store storage.Store

	seriesService service.SeriesService
}

func NewOrphanAssetsJob(store storage.Store) *OrphanAssetsJob {
	return &OrphanAssetsJob{store: store}
}

func (j *OrphanAssetsJob) Run() {
	// A panic here must not take down the cron scheduler.
	defer common.Recover("orphan asset sweep")

	referenced, err := j.referencedURLs()
	if err != nil {
		logger.Warning("orphan sweep skipped, cannot list series:", err)
		return
	}

	removed := 0
	for _, bucket := range []string{storage.BucketCovers, storage.BucketChapters} {
		err := j.store.Walk(bucket, func(objectPath string, modTime time.Time) error {
			if time.Since(modTime) < orphanGracePeriod {
				return nil
			}
			if referenced[j.store.PublicURL(bucket, objectPath)] {
				return nil
			}
			if err := j.store.Delete(bucket, objectPath); err != nil {
				logger.Warning("orphan sweep delete failed:", err)
				return nil
			}
			removed++
			return nil
		})
		if err != nil {
			logger.Warning("orphan sweep walk failed:", err)
		}
	}

	if removed > 0 {
		logger.Infof("orphan sweep removed %d unreferenced assets", removed)
	}
}

// referencedURLs collects every asset URL the library still points at:
// covers plus every page of every chapter.
func (j *OrphanAssetsJob) referencedURLs() (map[string]bool, error) {
	allSeries, err := j.seriesService.List("")
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]bool)
	for _, series := range allSeries {
		if series.CoverURL != "" {
			referenced[series.CoverURL] = true
		}
		chapters, err := series.ChapterList()
		if err != nil {
			logger.Warningf("orphan sweep cannot decode chapters of series %d: %v", series.Id, err)
			continue
		}
		for _, chapter := range chapters {
			for _, page := range chapter.Pages {
				referenced[page] = true
			}
		}
	}
	return referenced, nil
}
