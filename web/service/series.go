package service

import (
	"strings"
	"time"

	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/database/model"

	"gorm.io/gorm"
)

// SeriesService owns the series rows and the status enumeration. Every
// mutation takes the acting profile and authorizes it again; the route
// middleware is not trusted to have run.
type SeriesService struct {
	authService AuthService
}

func validStatus(status model.SeriesStatus) bool {
	switch status {
	case model.StatusOngoing, model.StatusCompleted, model.StatusHiatus:
		return true
	}
	return false
}

// listOrderings whitelists the caller-specified sorts for List.
var listOrderings = map[string]string{
	"":           "created_at desc",
	"created_at": "created_at desc",
	"updated_at": "updated_at desc",
	"title":      "title asc",
}

// Create inserts a new series with an empty chapter list. Status defaults
// to ongoing when unspecified.
func (s *SeriesService) Create(actor *model.Profile, title, description string, status model.SeriesStatus, coverURL string) (*model.Series, error) {
	if err := s.authService.Authorize(actor, AccessAdmin); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrValidation
	}
	if status == "" {
		status = model.StatusOngoing
	}
	if !validStatus(status) {
		return nil, ErrValidation
	}

	series := &model.Series{
		Title:       title,
		Description: description,
		Status:      status,
		CoverURL:    coverURL,
		Version:     1,
	}
	if err := series.SetChapterList([]model.Chapter{}); err != nil {
		return nil, err
	}

	db := database.GetDB()
	if err := db.Create(series).Error; err != nil {
		return nil, err
	}
	return series, nil
}

func (s *SeriesService) Get(id int) (*model.Series, error) {
	db := database.GetDB()

	series := &model.Series{}
	err := db.Model(model.Series{}).
		Where("id = ?", id).
		First(series).
		Error
	if database.IsNotFound(err) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return series, nil
}

// List returns all series in the caller-specified order. Unknown orderings
// fall back to newest first.
func (s *SeriesService) List(orderBy string) ([]*model.Series, error) {
	ordering, ok := listOrderings[orderBy]
	if !ok {
		ordering = listOrderings[""]
	}

	db := database.GetDB()
	series := make([]*model.Series, 0)
	err := db.Model(model.Series{}).
		Order(ordering).
		Find(&series).
		Error
	if err != nil {
		return nil, err
	}
	return series, nil
}

// SeriesUpdate carries the partial-update fields; nil means unchanged.
type SeriesUpdate struct {
	Title       *string
	Description *string
	Status      *model.SeriesStatus
	CoverURL    *string
}

// Update applies a partial update, stamps updated_at and bumps the version.
func (s *SeriesService) Update(actor *model.Profile, id int, update SeriesUpdate) (*model.Series, error) {
	if err := s.authService.Authorize(actor, AccessAdmin); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		if title == "" {
			return nil, ErrValidation
		}
		fields["title"] = title
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Status != nil {
		if !validStatus(*update.Status) {
			return nil, ErrValidation
		}
		fields["status"] = *update.Status
	}
	if update.CoverURL != nil {
		fields["cover_url"] = *update.CoverURL
	}

	if len(fields) > 0 {
		fields["updated_at"] = time.Now()
		fields["version"] = gorm.Expr("version + 1")

		db := database.GetDB()
		result := db.Model(model.Series{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.Get(id)
}

// Delete removes the series row. Uploaded cover and page assets become
// orphaned here on purpose; the orphan-asset job reclaims them later.
func (s *SeriesService) Delete(actor *model.Profile, id int) error {
	if err := s.authService.Authorize(actor, AccessAdmin); err != nil {
		return err
	}

	db := database.GetDB()
	result := db.Delete(model.Series{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceChapters commits a new chapter list as a full replacement of the
// chapters column. The write is a compare-and-swap on the version the
// caller read: a concurrent writer makes it fail with ErrConflict instead
// of silently clobbering the other mutation's renumbering.
func (s *SeriesService) ReplaceChapters(actor *model.Profile, id int, chapters []model.Chapter, expectedVersion int64) (*model.Series, error) {
	if err := s.authService.Authorize(actor, AccessAdmin); err != nil {
		return nil, err
	}

	series := &model.Series{}
	if err := series.SetChapterList(chapters); err != nil {
		return nil, err
	}

	db := database.GetDB()
	result := db.Model(model.Series{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"chapters":   series.Chapters,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := s.Get(id); err != nil {
			return nil, err
		}
		return nil, ErrConflict
	}
	return s.Get(id)
}
