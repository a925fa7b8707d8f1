package enrichment_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/enrichment"
	"powerfulchat/internal/richtext"
)

func TestProcessPersonCreatesFullProfile(t *testing.T) {
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{ImportBiography: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if person == nil {
		t.Fatal("expected person, got nil")
	}

	if person.Name != "Mia Delacroix" {
		t.Errorf("name = %q", person.Name)
	}
	if person.Slug != "mia-delacroix" {
		t.Errorf("slug = %q", person.Slug)
	}
	if person.TMDBID != 4242 {
		t.Errorf("tmdb id = %d", person.TMDBID)
	}
	if person.DateOfBirth != "1983-11-24" {
		t.Errorf("date of birth = %q", person.DateOfBirth)
	}
	if person.Country != "Australia" {
		t.Errorf("country = %q, want value from place of birth", person.Country)
	}
	if person.Gender != catalog.GenderFemale {
		t.Errorf("gender = %q", person.Gender)
	}
	if person.IsDeceased || person.DeathDate != "" {
		t.Errorf("deceased = %v/%q, want alive", person.IsDeceased, person.DeathDate)
	}
	if person.ImageRef == "" {
		t.Error("image ref empty")
	}
	if person.PowerMeter < 40 || person.PowerMeter > 90 {
		t.Errorf("power meter = %d, want within [40, 90]", person.PowerMeter)
	}
	if len(person.Keywords) == 0 {
		t.Error("keywords empty")
	}
	if !person.HasBiography() {
		t.Error("biography empty")
	}
	if !person.HasIntro() {
		t.Error("intro empty")
	}
	if len(person.FAQs) == 0 {
		t.Error("faqs empty")
	}
}

func TestProcessPersonRewritesActorToActressForWomen(t *testing.T) {
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	want := []string{"Actress", "Producer"}
	if !reflect.DeepEqual(person.Professions, want) {
		t.Errorf("professions = %v, want %v", person.Professions, want)
	}
}

func TestProcessPersonKeepsActorForMen(t *testing.T) {
	details := actressDetails()
	details.Gender = 2
	pipe := newTestPipeline(t, &fakeSource{person: details}, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if person.Gender != catalog.GenderMale {
		t.Errorf("gender = %q", person.Gender)
	}
	want := []string{"Actor", "Producer"}
	if !reflect.DeepEqual(person.Professions, want) {
		t.Errorf("professions = %v, want %v", person.Professions, want)
	}
}

func TestProcessPersonIsIdempotent(t *testing.T) {
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, &fakeTexts{})
	opts := enrichment.ProcessOptions{ImportBiography: true}

	first, err := pipe.enricher.ProcessPerson(context.Background(), 4242, opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := pipe.enricher.ProcessPerson(context.Background(), 4242, opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if countPersons(t, pipe.store) != 1 {
		t.Fatalf("persons = %d, want 1", countPersons(t, pipe.store))
	}
	if second.ID != first.ID {
		t.Errorf("second run returned different document: %s vs %s", second.ID, first.ID)
	}
	if !reflect.DeepEqual(second.Biography, first.Biography) {
		t.Error("biography changed on second run")
	}
	if !reflect.DeepEqual(second.Credits, first.Credits) {
		t.Error("credits changed on second run")
	}
}

func TestProcessPersonMatchesExistingByName(t *testing.T) {
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, &fakeTexts{})

	seeded, err := pipe.store.CreatePerson(context.Background(), &catalog.Person{
		Name:      "Mia  Delacroix",
		Slug:      "mia-delacroix",
		Biography: []richtext.Block{{Key: "b0", Style: richtext.StyleNormal, Spans: []richtext.Span{{Key: "b0s0", Text: "Hand-written biography."}}}},
	})
	if err != nil {
		t.Fatalf("seed person: %v", err)
	}

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{ImportBiography: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}

	if person.ID != seeded.ID {
		t.Fatalf("created a duplicate instead of matching by name: %s vs %s", person.ID, seeded.ID)
	}
	if person.TMDBID != 4242 {
		t.Errorf("tmdb id not backfilled: %d", person.TMDBID)
	}
	if got := richtext.PlainText(person.Biography); got != "Hand-written biography." {
		t.Errorf("existing biography overwritten: %q", got)
	}
	if countPersons(t, pipe.store) != 1 {
		t.Errorf("persons = %d, want 1", countPersons(t, pipe.store))
	}
}

func TestProcessPersonSkipsWithoutProfileImage(t *testing.T) {
	details := actressDetails()
	details.ProfilePath = ""
	pipe := newTestPipeline(t, &fakeSource{person: details}, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{ImportBiography: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if person != nil {
		t.Fatalf("expected nil person, got %s", person.ID)
	}
	if countPersons(t, pipe.store) != 0 {
		t.Error("person document was created for ineligible person")
	}
	if pipe.images.ingestCalls() != 0 {
		t.Error("image was ingested for ineligible person")
	}
}

func TestProcessPersonSkipsOnSourceFailure(t *testing.T) {
	pipe := newTestPipeline(t, &fakeSource{personErr: errors.New("upstream 500")}, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{})
	if err != nil {
		t.Fatalf("source failure must not surface as error, got %v", err)
	}
	if person != nil {
		t.Fatal("expected nil person on source failure")
	}
	if countPersons(t, pipe.store) != 0 {
		t.Error("person document was created despite source failure")
	}
}

func TestProcessPersonDegradesWhenGeneratorFails(t *testing.T) {
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, &fakeTexts{failAll: true})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{ImportBiography: true})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if person == nil {
		t.Fatal("generator failure must not block creation")
	}

	if person.Country != "Australia" {
		t.Errorf("sourced country lost: %q", person.Country)
	}
	if len(person.Professions) != 0 {
		t.Errorf("professions = %v, want empty on generator failure", person.Professions)
	}
	if person.EyeColor != "" || person.HairColor != "" || person.Height != "" || person.BodyType != "" {
		t.Error("terse fields should be empty on generator failure")
	}
	if person.HasBiography() || person.HasIntro() || len(person.Keywords) != 0 || len(person.FAQs) != 0 {
		t.Error("biography content should be empty on generator failure")
	}
}

func TestProcessPersonRejectsMalformedDeathDate(t *testing.T) {
	texts := &fakeTexts{deceasedJSON: `{"is_deceased": true, "death_date": "March 4, 2020"}`}
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, texts)

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if person.IsDeceased || person.DeathDate != "" {
		t.Errorf("malformed death date accepted: deceased=%v date=%q", person.IsDeceased, person.DeathDate)
	}
}

func TestProcessPersonKeepsStrictDeathDate(t *testing.T) {
	texts := &fakeTexts{deceasedJSON: `{"is_deceased": true, "death_date": "2020-03-04"}`}
	pipe := newTestPipeline(t, &fakeSource{person: actressDetails()}, texts)

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if !person.IsDeceased || person.DeathDate != "2020-03-04" {
		t.Errorf("deceased=%v date=%q, want recorded death", person.IsDeceased, person.DeathDate)
	}
}

func TestProcessPersonFallsBackToGeneratedBirthDate(t *testing.T) {
	details := actressDetails()
	details.Birthday = ""
	pipe := newTestPipeline(t, &fakeSource{person: details}, &fakeTexts{})

	person, err := pipe.enricher.ProcessPerson(context.Background(), 4242, enrichment.ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessPerson: %v", err)
	}
	if person.DateOfBirth != "1983-11-24" {
		t.Errorf("date of birth = %q, want generated fallback", person.DateOfBirth)
	}
}
