package model

import (
	"time"

	"github.com/MindDevsDavid/DragonScan/util/json_util"

	"github.com/goccy/go-json"
)

// Role is the access tier attached to a profile.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLector Role = "lector"
)

// SeriesStatus is the publication state of a series.
type SeriesStatus string

const (
	StatusOngoing   SeriesStatus = "ongoing"
	StatusCompleted SeriesStatus = "completed"
	StatusHiatus    SeriesStatus = "hiatus"
)

// Profile is a registered user. Registration always creates lectors; the
// role is only changed out-of-band through the CLI.
type Profile struct {
	Id           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	Role         Role      `json:"role" gorm:"not null"` // admin | lector
	LoginSecret  string    `json:"-"`                    // optional TOTP seed
	CreatedAt    time.Time `json:"created_at"`
}

// Chapter is one entry of a series' embedded chapter list. Number always
// equals the chapter's 1-based position at the time of the last write.
// JSON keys match the stored document format of the original site.
type Chapter struct {
	Number     int       `json:"numero"`
	Title      string    `json:"titulo"`
	UploadedAt time.Time `json:"fecha_subida"`
	Pages      []string  `json:"paginas"`
	PageCount  int       `json:"total_paginas"`
}

// Series is a catalog entry. Chapters are embedded as a JSON document in a
// single column, not a separate relation, so every chapter mutation is a
// read-modify-write of the whole list guarded by Version.
type Series struct {
	Id          int                  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string               `json:"title" gorm:"not null"`
	Description string               `json:"description"`
	Status      SeriesStatus         `json:"status" gorm:"not null;default:ongoing"`
	CoverURL    string               `json:"cover_url" gorm:"column:cover_url"`
	Chapters    json_util.RawMessage `json:"chapters" gorm:"column:chapters;type:text"`
	Version     int64                `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// ChapterList decodes the embedded chapters column. A missing or null
// column decodes as an empty list.
func (s *Series) ChapterList() ([]Chapter, error) {
	if len(s.Chapters) == 0 {
		return []Chapter{}, nil
	}
	var chapters []Chapter
	if err := json.Unmarshal(s.Chapters, &chapters); err != nil {
		return nil, err
	}
	if chapters == nil {
		chapters = []Chapter{}
	}
	return chapters, nil
}

// SetChapterList encodes chapters into the embedded column.
func (s *Series) SetChapterList(chapters []Chapter) error {
	if chapters == nil {
		chapters = []Chapter{}
	}
	data, err := json.Marshal(chapters)
	if err != nil {
		return err
	}
	s.Chapters = json_util.RawMessage(data)
	return nil
}

// Setting is a key/value site setting row.
type Setting struct {
	Id    int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Key   string `json:"key" form:"key"`
	Value string `json:"value" form:"value"`
}
