package catalog

import (
	"strings"
	"time"

	"powerfulchat/internal/richtext"
)

// Gender values stored on person documents.
const (
	GenderFemale       = "Female"
	GenderMale         = "Male"
	GenderNonBinary    = "Non-binary"
	GenderNotSpecified = "Not Specified"
)

// PersonCredit links a person to a film, seen from the person side.
type PersonCredit struct {
	Key    string `json:"key"`
	FilmID string `json:"filmId"`
	Role   string `json:"role"`
}

// FilmCredit links a film to a person, seen from the film side.
type FilmCredit struct {
	Key        string `json:"key"`
	PersonID   string `json:"personId"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// FAQ is one question/answer content block on a person page.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Person is the profile document for a celebrity or public figure.
//
// Fields other than Credits follow a fill-once lifecycle: they are set at
// creation or backfilled later when empty, never overwritten. Credits are
// append-only with a per-film duplicate check.
type Person struct {
	ID          string
	TMDBID      int64 // 0 until assigned; unique afterwards
	Name        string
	Slug        string
	DateOfBirth string
	Country     string
	Gender      string
	Professions []string
	Ethnicity   []string
	EyeColor    string
	HairColor   string
	Height      string
	BodyType    string
	IsDeceased  bool
	DeathDate   string
	Intro       []richtext.Block
	Biography   []richtext.Block
	Keywords    []string
	FAQs        []FAQ
	ImageRef    string
	PowerMeter  int
	Credits     []PersonCredit
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasFilmCredit reports whether the person already links the given film.
func (p *Person) HasFilmCredit(filmID string) bool {
	for _, credit := range p.Credits {
		if credit.FilmID == filmID {
			return true
		}
	}
	return false
}

// HasBiography reports whether the expanded biography is populated.
func (p *Person) HasBiography() bool {
	return len(p.Biography) > 0
}

// HasIntro reports whether the short intro is populated.
func (p *Person) HasIntro() bool {
	return len(p.Intro) > 0
}

// Film is the profile document for a film or project.
type Film struct {
	ID        string
	TMDBID    int64
	Title     string
	Credits   []FilmCredit
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPersonCredit reports whether the film already links the given person.
func (f *Film) HasPersonCredit(personID string) bool {
	for _, credit := range f.Credits {
		if credit.PersonID == personID {
			return true
		}
	}
	return false
}

// PersonBackfill carries the fields the enrichment pipeline may add to an
// existing person. Every field is applied only when the stored value is
// empty; populated fields are never clobbered.
type PersonBackfill struct {
	TMDBID    int64
	Intro     []richtext.Block
	Biography []richtext.Block
	Keywords  []string
	FAQs      []FAQ
	ImageRef  string
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
