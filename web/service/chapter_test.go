package service

import (
	"testing"

	"github.com/MindDevsDavid/DragonScan/database/model"

	"github.com/stretchr/testify/assert"
)

func TestAppendChapterNumbersSequentially(t *testing.T) {
	service := ChapterService{}

	chapters := []model.Chapter{}
	for i := 0; i < 3; i++ {
		var err error
		chapters, err = service.AppendChapter(chapters, "", []string{"p1", "p2"})
		assert.NoError(t, err)
	}

	assert.Len(t, chapters, 3)
	for i, chapter := range chapters {
		assert.Equal(t, i+1, chapter.Number)
		assert.Equal(t, DefaultChapterTitle(i+1), chapter.Title)
		assert.Equal(t, 2, chapter.PageCount)
	}
}

func TestAppendChapterCustomTitle(t *testing.T) {
	service := ChapterService{}

	chapters, err := service.AppendChapter(nil, "El despertar", []string{"p1"})
	assert.NoError(t, err)
	assert.Equal(t, "El despertar", chapters[0].Title)
	assert.Equal(t, 1, chapters[0].Number)
}

func TestAppendChapterEmptyPages(t *testing.T) {
	service := ChapterService{}

	_, err := service.AppendChapter(nil, "x", nil)
	assert.ErrorIs(t, err, ErrEmptyChapter)
}

func TestAppendChapterCopiesInput(t *testing.T) {
	service := ChapterService{}

	pages := []string{"a", "b"}
	chapters, err := service.AppendChapter(nil, "", pages)
	assert.NoError(t, err)

	pages[0] = "mutated"
	assert.Equal(t, "a", chapters[0].Pages[0])
}

func TestDeleteChapterRenumbers(t *testing.T) {
	service := ChapterService{}

	chapters := []model.Chapter{}
	var err error
	chapters, _ = service.AppendChapter(chapters, "", []string{"p"})
	chapters, _ = service.AppendChapter(chapters, "", []string{"p"})
	chapters, _ = service.AppendChapter(chapters, "Final especial", []string{"p"})

	updated, err := service.DeleteChapterAt(chapters, 0)
	assert.NoError(t, err)
	assert.Len(t, updated, 2)

	// Auto-generated titles follow their new numbers.
	assert.Equal(t, 1, updated[0].Number)
	assert.Equal(t, DefaultChapterTitle(1), updated[0].Title)

	// Custom titles survive renumbering.
	assert.Equal(t, 2, updated[1].Number)
	assert.Equal(t, "Final especial", updated[1].Title)

	// The input list is untouched.
	assert.Len(t, chapters, 3)
	assert.Equal(t, 1, chapters[0].Number)
}

func TestDeleteChapterOutOfRange(t *testing.T) {
	service := ChapterService{}

	chapters, _ := service.AppendChapter(nil, "", []string{"p"})

	_, err := service.DeleteChapterAt(chapters, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = service.DeleteChapterAt(chapters, 1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDeleteLastChapter(t *testing.T) {
	service := ChapterService{}

	chapters, _ := service.AppendChapter(nil, "", []string{"p"})
	updated, err := service.DeleteChapterAt(chapters, 0)
	assert.NoError(t, err)
	assert.Empty(t, updated)
}

func TestReorderPages(t *testing.T) {
	service := ChapterService{}
	pages := []string{"a", "b", "c", "d"}

	moved, err := service.ReorderPages(pages, 0, 2)
	assert.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, moved)

	// Moving back restores the original order.
	restored, err := service.ReorderPages(moved, 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, pages, restored)

	// The input slice is never mutated.
	assert.Equal(t, []string{"a", "b", "c", "d"}, pages)
}

func TestReorderPagesNoop(t *testing.T) {
	service := ChapterService{}
	pages := []string{"a", "b"}

	out, err := service.ReorderPages(pages, 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, pages, out)
}

func TestReorderPagesOutOfRange(t *testing.T) {
	service := ChapterService{}
	pages := []string{"a", "b"}

	_, err := service.ReorderPages(pages, 0, 2)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = service.ReorderPages(pages, -1, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
