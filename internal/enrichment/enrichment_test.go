package enrichment_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/enrichment"
	"powerfulchat/internal/logging"
	"powerfulchat/internal/retrypolicy"
	"powerfulchat/internal/services/tmdb"
	"powerfulchat/internal/testsupport"
)

// fakeSource serves canned TMDB payloads.
type fakeSource struct {
	mu          sync.Mutex
	person      *tmdb.Person
	personErr   error
	credits     *tmdb.CombinedCredits
	creditsErr  error
	movies      map[int64]*tmdb.Movie
	personCalls int
}

func (f *fakeSource) GetPerson(_ context.Context, personID int64) (*tmdb.Person, error) {
	f.mu.Lock()
	f.personCalls++
	f.mu.Unlock()
	if f.personErr != nil {
		return nil, f.personErr
	}
	if f.person != nil && f.person.ID == personID {
		clone := *f.person
		return &clone, nil
	}
	return nil, fmt.Errorf("person %d not found", personID)
}

func (f *fakeSource) GetCombinedCredits(_ context.Context, personID int64) (*tmdb.CombinedCredits, error) {
	if f.creditsErr != nil {
		return nil, f.creditsErr
	}
	if f.credits == nil {
		return &tmdb.CombinedCredits{ID: personID}, nil
	}
	return f.credits, nil
}

func (f *fakeSource) GetMovieDetails(_ context.Context, movieID int64) (*tmdb.Movie, error) {
	if movie, ok := f.movies[movieID]; ok {
		return movie, nil
	}
	return nil, fmt.Errorf("movie %d not found", movieID)
}

// fakeTexts answers generative prompts with fixed content. Instruction and
// system prompt keywords select the canned answer.
type fakeTexts struct {
	failAll      bool
	deceasedJSON string
}

func (f *fakeTexts) Complete(_ context.Context, subject, instruction string) (string, error) {
	if f.failAll {
		return "", errors.New("model offline")
	}
	switch {
	case strings.Contains(instruction, "country"):
		return "France", nil
	case strings.Contains(instruction, "date of birth"):
		return "1983-11-24", nil
	case strings.Contains(instruction, "professions"):
		return "Actor, Producer", nil
	case strings.Contains(instruction, "ethnicity"):
		return "French", nil
	case strings.Contains(instruction, "eye"):
		return "Green", nil
	case strings.Contains(instruction, "hair"):
		return "Brown", nil
	case strings.Contains(instruction, "height"):
		return `5'7" (170 cm)`, nil
	case strings.Contains(instruction, "body type"):
		return "Athletic", nil
	}
	return "Unknown", nil
}

func (f *fakeTexts) Generate(_ context.Context, systemPrompt, _ string) (string, error) {
	if f.failAll {
		return "", errors.New("model offline")
	}
	if strings.Contains(systemPrompt, "introductions") {
		return "An acclaimed performer with a global following.", nil
	}
	return "# Early life\n\nBorn in Sydney, she rose to international fame.", nil
}

func (f *fakeTexts) CompleteJSON(_ context.Context, systemPrompt, _ string) (string, error) {
	if f.failAll {
		return "", errors.New("model offline")
	}
	switch {
	case strings.Contains(systemPrompt, "keywords"):
		return `{"keywords": ["drama films", "award winner"]}`, nil
	case strings.Contains(systemPrompt, "FAQ"):
		return `{"faqs": [{"question": "How old is she?", "answer": "Born in 1983."}]}`, nil
	case strings.Contains(systemPrompt, "deceased"):
		if f.deceasedJSON != "" {
			return f.deceasedJSON, nil
		}
		return `{"is_deceased": false, "death_date": ""}`, nil
	}
	return "", fmt.Errorf("unexpected system prompt: %s", systemPrompt)
}

// fakeImages records ingest calls and returns a stable reference.
type fakeImages struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (f *fakeImages) Ingest(_ context.Context, sourceURL string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail {
		return "", errors.New("ingest failed")
	}
	return "image-deadbeef.jpg", nil
}

func (f *fakeImages) ingestCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func retryPolicyWithSleep(attempts int, hook func() error) retrypolicy.Policy {
	return retrypolicy.Policy{
		MaxAttempts: attempts,
		Sleep: func(context.Context, time.Duration) error {
			return hook()
		},
	}
}

type testPipeline struct {
	enricher *enrichment.Enricher
	store    *catalog.Store
	source   *fakeSource
	texts    *fakeTexts
	images   *fakeImages
}

func newTestPipeline(t *testing.T, source *fakeSource, texts *fakeTexts) *testPipeline {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	images := &fakeImages{}

	enricher, err := enrichment.New(enrichment.Options{
		Store:    store,
		Source:   source,
		Texts:    texts,
		Images:   images,
		Importer: enrichment.NewCatalogFilmImporter(store, source, logging.NewNop()),
		Visibility: retrypolicy.Policy{
			MaxAttempts: 3,
			Sleep:       func(context.Context, time.Duration) error { return nil },
		},
	})
	if err != nil {
		t.Fatalf("build enricher: %v", err)
	}
	return &testPipeline{
		enricher: enricher,
		store:    store,
		source:   source,
		texts:    texts,
		images:   images,
	}
}

func actressDetails() *tmdb.Person {
	return &tmdb.Person{
		ID:           4242,
		Name:         "Mia Delacroix",
		Birthday:     "1983-11-24",
		Gender:       1,
		PlaceOfBirth: "Sydney, New South Wales, Australia",
		ProfilePath:  "/mia.jpg",
	}
}

func countPersons(t *testing.T, store *catalog.Store) int {
	t.Helper()
	persons, err := store.ListPersons(context.Background())
	if err != nil {
		t.Fatalf("list persons: %v", err)
	}
	return len(persons)
}

func countFilms(t *testing.T, store *catalog.Store) int {
	t.Helper()
	films, err := store.ListFilms(context.Background())
	if err != nil {
		t.Fatalf("list films: %v", err)
	}
	return len(films)
}
