package enrichment_test

import (
	"context"
	"testing"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/enrichment"
	"powerfulchat/internal/services/tmdb"
)

func filmographySource() *fakeSource {
	return &fakeSource{
		person: actressDetails(),
		credits: &tmdb.CombinedCredits{
			ID: 4242,
			Cast: []tmdb.CreditEntry{
				{ID: 100, Title: "Harbor Lights", Character: "Dr. Elena Voss", MediaType: "movie"},
				{ID: 101, Title: "The Long Winter", Character: "", MediaType: "movie"},
			},
			Crew: []tmdb.CreditEntry{
				{ID: 102, Title: "Night Ferry", Job: "Director", Department: "Directing", MediaType: "movie"},
			},
		},
		movies: map[int64]*tmdb.Movie{
			100: {ID: 100, Title: "Harbor Lights"},
			101: {ID: 101, Title: "The Long Winter"},
			102: {ID: 102, Title: "Night Ferry"},
		},
	}
}

func TestLinkFilmCreditsWritesBothSides(t *testing.T) {
	pipe := newTestPipeline(t, filmographySource(), &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{CreditsOnly: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if len(person.Credits) != 3 {
		t.Fatalf("person credits = %d, want 3", len(person.Credits))
	}
	if countFilms(t, pipe.store) != 3 {
		t.Fatalf("films = %d, want 3", countFilms(t, pipe.store))
	}

	harbor, err := pipe.store.FindFilmByTMDBID(context.Background(), 100)
	if err != nil || harbor == nil {
		t.Fatalf("find harbor lights: %v", err)
	}
	if !harbor.HasPersonCredit(person.ID) {
		t.Error("film side missing person credit")
	}
	if harbor.Credits[0].Role != "Dr. Elena Voss" || harbor.Credits[0].Department != "Acting" {
		t.Errorf("cast credit = %+v", harbor.Credits[0])
	}

	ferry, err := pipe.store.FindFilmByTMDBID(context.Background(), 102)
	if err != nil || ferry == nil {
		t.Fatalf("find night ferry: %v", err)
	}
	if ferry.Credits[0].Role != "Director" || ferry.Credits[0].Department != "Directing" {
		t.Errorf("crew credit = %+v", ferry.Credits[0])
	}
}

func TestLinkFilmCreditsDefaultsBlankRoleToUnknown(t *testing.T) {
	pipe := newTestPipeline(t, filmographySource(), &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{CreditsOnly: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}

	winter, err := pipe.store.FindFilmByTMDBID(context.Background(), 101)
	if err != nil || winter == nil {
		t.Fatalf("find the long winter: %v", err)
	}
	if !winter.HasPersonCredit(person.ID) {
		t.Fatal("film side missing person credit")
	}
	if winter.Credits[0].Role != "Unknown" {
		t.Errorf("blank character role = %q, want Unknown", winter.Credits[0].Role)
	}
}

func TestLinkFilmCreditsNeverDuplicates(t *testing.T) {
	pipe := newTestPipeline(t, filmographySource(), &fakeTexts{})
	opts := enrichment.ProcessOptions{CreditsOnly: true}

	if _, err := pipe.enricher.ProcessPerson(context.Background(), 4242, opts); err != nil {
		t.Fatalf("first run: %v", err)
	}
	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if len(person.Credits) != 3 {
		t.Errorf("person credits = %d after rerun, want 3", len(person.Credits))
	}
	films, err := pipe.store.ListFilms(context.Background())
	if err != nil {
		t.Fatalf("list films: %v", err)
	}
	if len(films) != 3 {
		t.Errorf("films = %d after rerun, want 3", len(films))
	}
	for _, film := range films {
		if len(film.Credits) != 1 {
			t.Errorf("film %s has %d credits, want 1", film.Title, len(film.Credits))
		}
	}
}

func TestLinkFilmCreditsSkipsUnresolvableFilms(t *testing.T) {
	source := filmographySource()
	delete(source.movies, 101)
	pipe := newTestPipeline(t, source, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{CreditsOnly: true})
	if err != nil {
		t.Fatalf("one unresolvable film must not fail the run: %v", err)
	}
	if len(person.Credits) != 2 {
		t.Errorf("person credits = %d, want 2 with one film skipped", len(person.Credits))
	}
	if countFilms(t, pipe.store) != 2 {
		t.Errorf("films = %d, want 2", countFilms(t, pipe.store))
	}
}

func TestLinkFilmCreditsEmptyFilmographyIsNoOp(t *testing.T) {
	source := filmographySource()
	source.credits = &tmdb.CombinedCredits{ID: 4242}
	pipe := newTestPipeline(t, source, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{CreditsOnly: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if len(person.Credits) != 0 {
		t.Errorf("person credits = %d, want 0", len(person.Credits))
	}
	if countFilms(t, pipe.store) != 0 {
		t.Errorf("films = %d, want 0", countFilms(t, pipe.store))
	}
}

func TestProcessPersonAppendsOriginFilmCredit(t *testing.T) {
	source := filmographySource()
	pipe := newTestPipeline(t, source, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{
		OriginFilmTMDBID: 100,
		OriginRole:       "Dr. Elena Voss",
	})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if len(person.Credits) != 1 {
		t.Fatalf("person credits = %d, want 1 origin credit", len(person.Credits))
	}
	if person.Credits[0].Role != "Dr. Elena Voss" {
		t.Errorf("origin role = %q", person.Credits[0].Role)
	}

	film, err := pipe.store.FindFilmByTMDBID(context.Background(), 100)
	if err != nil || film == nil {
		t.Fatalf("origin film not imported: %v", err)
	}
	if person.Credits[0].FilmID != film.ID {
		t.Errorf("origin credit references %q, want %q", person.Credits[0].FilmID, film.ID)
	}
}

// lagImporter acknowledges the import but only makes the document visible
// after the first visibility retry sleeps, modeling read-after-write lag.
type lagImporter struct {
	store   *catalog.Store
	pending map[int64]string
}

func (l *lagImporter) ImportFilm(_ context.Context, tmdbID int64) (bool, error) {
	title, ok := l.pending[tmdbID]
	return ok && title != "", nil
}

func TestLinkFilmCreditsWaitsOutReadAfterWriteLag(t *testing.T) {
	source := filmographySource()
	source.credits.Cast = source.credits.Cast[:1]
	source.credits.Crew = nil

	cfgPipe := newTestPipeline(t, source, &fakeTexts{})
	importer := &lagImporter{
		store:   cfgPipe.store,
		pending: map[int64]string{100: "Harbor Lights"},
	}

	sleeps := 0
	enricher, err := enrichment.New(enrichment.Options{
		Store:    cfgPipe.store,
		Source:   source,
		Texts:    &fakeTexts{},
		Images:   &fakeImages{},
		Importer: importer,
		Visibility: retryPolicyWithSleep(3, func() error {
			sleeps++
			// The write becomes visible while the linker waits.
			_, err := importer.store.CreateFilm(context.Background(), &catalog.Film{TMDBID: 100, Title: importer.pending[100]})
			return err
		}),
	})
	if err != nil {
		t.Fatalf("build enricher: %v", err)
	}

	person, err := enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{CreditsOnly: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if sleeps == 0 {
		t.Fatal("visibility retry never slept")
	}
	if len(person.Credits) != 1 {
		t.Fatalf("person credits = %d, want 1 after lag", len(person.Credits))
	}
}
