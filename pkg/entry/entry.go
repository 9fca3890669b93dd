// Package entry defines the journal records: entries, the in-progress draft,
// the last used scripture reference and the user profile.
package entry

import (
	"fmt"
	"slices"

	"tableflip.dev/gracelog/pkg/scripture"
	"tableflip.dev/gracelog/pkg/timeutil"
)

// TemplateType is the reflection layout an entry was written with.
type TemplateType string

const (
	TemplateFree TemplateType = "FREE"
	TemplateSOAP TemplateType = "SOAP"
	TemplateACTS TemplateType = "ACTS"
)

// Entry is one committed journal record for a day and a scripture reference.
// Book is stored in whatever locale was active when the entry was saved.
type Entry struct {
	ID              string       `json:"id" validate:"required"`
	Date            timeutil.Day `json:"date" validate:"required"`
	Book            string       `json:"book" validate:"required"`
	Chapter         int          `json:"chapter" validate:"gte=1"`
	VerseRange      string       `json:"verseRange,omitempty"`
	TemplateType    TemplateType `json:"templateType,omitempty" validate:"omitempty,oneof=FREE SOAP ACTS"`
	ReflectionText  string       `json:"reflectionText" validate:"required"`
	ApplicationText string       `json:"applicationText"`
	PrayerText      string       `json:"prayerText"`
	Tags            []string     `json:"tags"`
	IsFavorite      bool         `json:"isFavorite"`
	CreatedAt       Timestamp    `json:"createdAt"`
	UpdatedAt       Timestamp    `json:"updatedAt"`
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	e.Tags = slices.Clone(e.Tags)
	return e
}

// Reference is the scripture location of e.
func (e Entry) Reference() Reference {
	return Reference{Book: e.Book, Chapter: e.Chapter}
}

// Title renders "Book Chapter:Verses" with the book shown in locale l.
func (e Entry) Title(l scripture.Locale) string {
	title := fmt.Sprintf("%s %d", scripture.Translate(e.Book, l), e.Chapter)
	if e.VerseRange != "" {
		title += ":" + e.VerseRange
	}
	return title
}

// Draft is unsaved editor content. It is not tied to any entry.
type Draft struct {
	Book            string   `json:"book"`
	Chapter         int      `json:"chapter"`
	VerseRange      string   `json:"verseRange"`
	ReflectionText  string   `json:"reflectionText"`
	ApplicationText string   `json:"applicationText"`
	PrayerText      string   `json:"prayerText"`
	Tags            []string `json:"tags"`
}

// Reference is a book and chapter pair.
type Reference struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
}

func (r Reference) String() string {
	return fmt.Sprintf("%s %d", r.Book, r.Chapter)
}
