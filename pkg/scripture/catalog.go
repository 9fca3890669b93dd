// Package scripture holds the static reference catalog: the canonical book
// names per locale and their chapter counts.
//
// Book names in different locales are related by position only. The name at
// index i of the Korean list is the same book as the name at index i of the
// English list, which is what Translate relies on.
package scripture

import "strings"

// Locale selects the language book names are shown in.
type Locale string

const (
	Korean  Locale = "ko"
	English Locale = "en"

	// DefaultLocale is used when nothing else is known about the user.
	DefaultLocale = Korean
)

// Locales lists the known locales in lookup order.
func Locales() []Locale {
	return []Locale{Korean, English}
}

// Valid reports whether l is a known locale.
func (l Locale) Valid() bool {
	return l == Korean || l == English
}

func (l Locale) String() string {
	return string(l)
}

// ParseLocale accepts "ko" or "en" in any case.
func ParseLocale(s string) (Locale, bool) {
	l := Locale(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Book is a single catalog row for one locale.
type Book struct {
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
}

type row struct {
	ko       string
	en       string
	chapters int
}

func (r row) name(l Locale) string {
	if l == English {
		return r.en
	}
	return r.ko
}

var canon = [...]row{
	{"창세기", "Genesis", 50},
	{"출애굽기", "Exodus", 40},
	{"레위기", "Leviticus", 27},
	{"민수기", "Numbers", 36},
	{"신명기", "Deuteronomy", 34},
	{"여호수아", "Joshua", 24},
	{"사사기", "Judges", 21},
	{"룻기", "Ruth", 4},
	{"사무엘상", "1 Samuel", 31},
	{"사무엘하", "2 Samuel", 24},
	{"열왕기상", "1 Kings", 22},
	{"열왕기하", "2 Kings", 25},
	{"역대상", "1 Chronicles", 29},
	{"역대하", "2 Chronicles", 36},
	{"에스라", "Ezra", 10},
	{"느헤미야", "Nehemiah", 13},
	{"에스더", "Esther", 10},
	{"욥기", "Job", 42},
	{"시편", "Psalms", 150},
	{"잠언", "Proverbs", 31},
	{"전도서", "Ecclesiastes", 12},
	{"아가", "Song of Solomon", 8},
	{"이사야", "Isaiah", 66},
	{"예레미야", "Jeremiah", 52},
	{"예레미야애가", "Lamentations", 5},
	{"에스겔", "Ezekiel", 48},
	{"다니엘", "Daniel", 12},
	{"호세아", "Hosea", 14},
	{"요엘", "Joel", 3},
	{"아모스", "Amos", 9},
	{"오바댜", "Obadiah", 1},
	{"요나", "Jonah", 4},
	{"미가", "Micah", 7},
	{"나훔", "Nahum", 3},
	{"하박국", "Habakkuk", 3},
	{"스바냐", "Zephaniah", 3},
	{"학개", "Haggai", 2},
	{"스가랴", "Zechariah", 14},
	{"말라기", "Malachi", 4},
	{"마태복음", "Matthew", 28},
	{"마가복음", "Mark", 16},
	{"누가복음", "Luke", 24},
	{"요한복음", "John", 21},
	{"사도행전", "Acts", 28},
	{"로마서", "Romans", 16},
	{"고린도전서", "1 Corinthians", 16},
	{"고린도후서", "2 Corinthians", 13},
	{"갈라디아서", "Galatians", 6},
	{"에베소서", "Ephesians", 6},
	{"빌립보서", "Philippians", 4},
	{"골로새서", "Colossians", 4},
	{"데살로니가전서", "1 Thessalonians", 5},
	{"데살로니가후서", "2 Thessalonians", 3},
	{"디모데전서", "1 Timothy", 6},
	{"디모데후서", "2 Timothy", 4},
	{"디도서", "Titus", 3},
	{"빌레몬서", "Philemon", 1},
	{"히브리서", "Hebrews", 13},
	{"야고보서", "James", 5},
	{"베드로전서", "1 Peter", 5},
	{"베드로후서", "2 Peter", 3},
	{"요한일서", "1 John", 5},
	{"요한이서", "2 John", 1},
	{"요한삼서", "3 John", 1},
	{"유다서", "Jude", 1},
	{"요한계시록", "Revelation", 22},
}

// Books returns the ordered book list for a locale. Unknown locales get the
// default locale's list. A new slice is built on every call.
func Books(l Locale) []Book {
	if !l.Valid() {
		l = DefaultLocale
	}
	books := make([]Book, len(canon))
	for i, r := range canon {
		books[i] = Book{Name: r.name(l), Chapters: r.chapters}
	}
	return books
}

// Index finds the catalog position of name, searching every known locale in
// lookup order.
func Index(name string) (int, bool) {
	for _, l := range Locales() {
		if i, ok := indexIn(name, l); ok {
			return i, true
		}
	}
	return 0, false
}

func indexIn(name string, l Locale) (int, bool) {
	for i, r := range canon {
		if r.name(l) == name {
			return i, true
		}
	}
	return 0, false
}

// Translate returns the name of the same book in locale to. Names that are
// not in the catalog are returned unchanged.
func Translate(name string, to Locale) string {
	i, ok := Index(name)
	if !ok {
		return name
	}
	if !to.Valid() {
		to = DefaultLocale
	}
	return canon[i].name(to)
}

// ChapterCount returns how many chapters book has. The given locale is
// searched first. Unknown books report a single chapter so callers can keep
// going.
func ChapterCount(book string, l Locale) int {
	if i, ok := indexIn(book, l); ok {
		return canon[i].chapters
	}
	if i, ok := Index(book); ok {
		return canon[i].chapters
	}
	return 1
}

// DefaultBook is the first book of the locale's list.
func DefaultBook(l Locale) string {
	if !l.Valid() {
		l = DefaultLocale
	}
	return canon[0].name(l)
}

// Known reports whether name is a book in any locale.
func Known(name string) bool {
	_, ok := Index(name)
	return ok
}
