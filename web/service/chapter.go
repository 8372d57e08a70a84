package service

import (
	"fmt"
	"time"

	"github.com/MindDevsDavid/DragonScan/database/model"
)

// ChapterService holds the rules for mutating a series' embedded chapter
// list. All operations are pure: they take the current list, return a new
// one and never touch the store. The caller commits the result atomically
// through SeriesService.ReplaceChapters, which replaces the whole column
// (the store has no array-append primitive).
//
// A chapter's Number is not a stable identifier. It always equals the
// chapter's 1-based position at the time of the last write, and the reader
// addresses chapters by that position, so every deletion renumbers the
// remaining chapters to stay contiguous and gapless.
type ChapterService struct{}

// DefaultChapterTitle is the auto-generated title for chapter number n.
func DefaultChapterTitle(n int) string {
	return fmt.Sprintf("Capítulo %d", n)
}

// AppendChapter adds a new chapter at the end of the list. Pages must be
// non-empty and are kept exactly in submission order; the upload sequencer
// is responsible for that order being reading order. An empty title gets
// the default for the new number.
func (s *ChapterService) AppendChapter(chapters []model.Chapter, title string, pages []string) ([]model.Chapter, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyChapter
	}

	number := len(chapters) + 1
	if title == "" {
		title = DefaultChapterTitle(number)
	}

	pageList := make([]string, len(pages))
	copy(pageList, pages)

	out := make([]model.Chapter, len(chapters), len(chapters)+1)
	copy(out, chapters)
	out = append(out, model.Chapter{
		Number:     number,
		Title:      title,
		UploadedAt: time.Now(),
		Pages:      pageList,
		PageCount:  len(pageList),
	})
	return out, nil
}

// DeleteChapterAt removes the chapter at index and renumbers the remaining
// chapters to their new 1-based positions. Titles that still carry the
// auto-generated form for their old number are regenerated for the new
// number; customized titles are preserved verbatim. The input list is left
// unchanged.
func (s *ChapterService) DeleteChapterAt(chapters []model.Chapter, index int) ([]model.Chapter, error) {
	if index < 0 || index >= len(chapters) {
		return nil, ErrOutOfRange
	}

	out := make([]model.Chapter, 0, len(chapters)-1)
	out = append(out, chapters[:index]...)
	out = append(out, chapters[index+1:]...)

	for i := range out {
		number := i + 1
		if out[i].Title == "" || out[i].Title == DefaultChapterTitle(out[i].Number) {
			out[i].Title = DefaultChapterTitle(number)
		}
		out[i].Number = number
	}
	return out, nil
}

// ReorderPages moves the page at from to position to, shifting the pages
// in between. Used only while a chapter is being composed; published
// chapters keep their pages immutable. A no-op when from == to.
func (s *ChapterService) ReorderPages(pages []string, from, to int) ([]string, error) {
	return reorderSlice(pages, from, to)
}

func reorderSlice[T any](items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrOutOfRange
	}

	out := make([]T, len(items))
	copy(out, items)
	if from == to {
		return out, nil
	}

	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out, nil
}
