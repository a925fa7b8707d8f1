package enrichment

import (
	"context"
	"fmt"
	"strings"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/logging"
	"powerfulchat/internal/richtext"
	"powerfulchat/internal/services/llm"
	"powerfulchat/internal/services/tmdb"
	"powerfulchat/internal/slug"
)

// ProcessPerson imports or refreshes one person identified by their external
// source ID. The operation is idempotent: an existing document (matched by
// source ID, then by normalized name) is only backfilled where fields are
// empty, never overwritten.
//
// Two situations end the run early with a nil person and a nil error: the
// source lookup failing, and the person lacking a name or profile image.
// Neither is an error of this pipeline; the person is simply not eligible.
func (e *Enricher) ProcessPerson(ctx context.Context, tmdbID int64, opts ProcessOptions) (*catalog.Person, error) {
	details, err := e.source.GetPerson(ctx, tmdbID)
	if err != nil {
		e.logger.Warn("person lookup failed, skipping",
			logging.Int64("tmdb_id", tmdbID),
			logging.Error(err))
		return nil, nil
	}
	if details == nil {
		return nil, nil
	}

	name := strings.TrimSpace(details.Name)
	imageURL := tmdb.ProfileImageURL(details.ProfilePath)
	if name == "" || imageURL == "" {
		e.logger.Info("skipping person without name or profile image",
			logging.Int64("tmdb_id", tmdbID),
			logging.String("name", name))
		return nil, nil
	}

	existing, err := e.store.FindPersonByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = e.store.FindPersonByName(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	if existing != nil {
		return e.refreshPerson(ctx, existing, details, imageURL, opts)
	}
	return e.createPerson(ctx, details, name, imageURL, opts)
}

// refreshPerson backfills empty fields on an existing document and applies
// the requested credit work. Populated fields stay untouched.
func (e *Enricher) refreshPerson(ctx context.Context, existing *catalog.Person, details *tmdb.Person, imageURL string, opts ProcessOptions) (*catalog.Person, error) {
	fill := catalog.PersonBackfill{TMDBID: details.ID}

	if opts.ImportBiography && !opts.CreditsOnly {
		if !existing.HasBiography() {
			keywords := e.generateKeywords(ctx, existing.Name)
			fill.Keywords = keywords
			fill.Biography = e.generateBiography(ctx, existing.Name, keywords)
		}
		if !existing.HasIntro() {
			fill.Intro = e.generateIntro(ctx, existing.Name)
		}
		if len(existing.FAQs) == 0 {
			fill.FAQs = e.generateFAQs(ctx, existing.Name)
		}
	}
	if existing.ImageRef == "" {
		fill.ImageRef = e.ingestImage(ctx, imageURL)
	}

	person, err := e.store.BackfillPerson(ctx, existing.ID, fill)
	if err != nil {
		return nil, fmt.Errorf("refresh person %s: %w", existing.ID, err)
	}

	if opts.OriginFilmTMDBID > 0 {
		e.creditOnOriginFilm(ctx, person, opts)
	}
	if opts.CreditsOnly {
		if err := e.LinkFilmCredits(ctx, person); err != nil {
			return nil, err
		}
	}
	return e.store.GetPersonByID(ctx, person.ID)
}

// createPerson assembles the full document in memory and stores it with one
// create call, so no partially built person is ever visible.
func (e *Enricher) createPerson(ctx context.Context, details *tmdb.Person, name, imageURL string, opts ProcessOptions) (*catalog.Person, error) {
	gender := mapGender(details.Gender)

	country := countryFromPlace(details.PlaceOfBirth)
	if country == "" {
		country = e.completeField(ctx, name, instructionCountry)
	}
	dateOfBirth := strings.TrimSpace(details.Birthday)
	if dateOfBirth == "" {
		if answer := e.completeField(ctx, name, instructionBirthDate); ValidDate(answer) {
			dateOfBirth = answer
		}
	}

	professions := adjustProfessions(e.completeListField(ctx, name, instructionProfessions), gender)
	ethnicity := e.completeListField(ctx, name, instructionEthnicity)

	report, err := e.deceased.CheckDeceased(ctx, name, dateOfBirth)
	if err != nil {
		e.logger.Warn("deceased check failed, treating as alive",
			logging.String("name", name),
			logging.Error(err))
		report = DeceasedReport{}
	}

	person := &catalog.Person{
		TMDBID:      details.ID,
		Name:        name,
		Slug:        slug.Make(name),
		DateOfBirth: dateOfBirth,
		Country:     country,
		Gender:      gender,
		Professions: professions,
		Ethnicity:   ethnicity,
		EyeColor:    e.completeField(ctx, name, instructionEyeColor),
		HairColor:   e.completeField(ctx, name, instructionHairColor),
		Height:      e.completeField(ctx, name, instructionHeight),
		BodyType:    e.completeField(ctx, name, instructionBodyType),
		IsDeceased:  report.IsDeceased,
		DeathDate:   report.DeathDate,
		ImageRef:    e.ingestImage(ctx, imageURL),
		PowerMeter:  e.powerMeter(),
	}

	if opts.ImportBiography && !opts.CreditsOnly {
		keywords := e.generateKeywords(ctx, name)
		person.Keywords = keywords
		person.Biography = e.generateBiography(ctx, name, keywords)
		person.Intro = e.generateIntro(ctx, name)
		person.FAQs = e.generateFAQs(ctx, name)
	}

	created, err := e.store.CreatePerson(ctx, person)
	if err != nil {
		return nil, fmt.Errorf("create person %q: %w", name, err)
	}
	e.logger.Info("created person",
		logging.String("id", created.ID),
		logging.Int64("tmdb_id", created.TMDBID),
		logging.String("name", created.Name))

	if opts.OriginFilmTMDBID > 0 {
		e.creditOnOriginFilm(ctx, created, opts)
	}
	if opts.CreditsOnly {
		if err := e.LinkFilmCredits(ctx, created); err != nil {
			return nil, err
		}
	}
	return e.store.GetPersonByID(ctx, created.ID)
}

// creditOnOriginFilm links the person to the film whose page triggered the
// run. Failures are logged and absorbed; the person document already exists
// and a later reconciliation or credits run can retry the link.
func (e *Enricher) creditOnOriginFilm(ctx context.Context, person *catalog.Person, opts ProcessOptions) {
	film := e.resolveFilm(ctx, opts.OriginFilmTMDBID)
	if film == nil {
		e.logger.Warn("origin film unavailable, credit skipped",
			logging.String("person_id", person.ID),
			logging.Int64("film_tmdb_id", opts.OriginFilmTMDBID))
		return
	}
	role := strings.TrimSpace(opts.OriginRole)
	if role == "" {
		role = roleUnknown
	}
	added, err := e.store.AppendPersonCredit(ctx, person.ID, catalog.PersonCredit{FilmID: film.ID, Role: role})
	if err != nil {
		e.logger.Warn("origin film credit failed",
			logging.String("person_id", person.ID),
			logging.String("film_id", film.ID),
			logging.Error(err))
		return
	}
	if added {
		e.logger.Info("credited person on origin film",
			logging.String("person_id", person.ID),
			logging.String("film_id", film.ID),
			logging.String("role", role))
	}
}

func (e *Enricher) generateKeywords(ctx context.Context, name string) []string {
	content, err := e.texts.CompleteJSON(ctx, llm.KeywordListSystemPrompt, "Subject: "+name)
	if err != nil {
		e.logger.Warn("keyword generation failed", logging.String("name", name), logging.Error(err))
		return nil
	}
	keywords, err := ParseKeywordList(content)
	if err != nil {
		e.logger.Warn("keyword payload unusable", logging.String("name", name), logging.Error(err))
		return nil
	}
	return keywords
}

func (e *Enricher) generateBiography(ctx context.Context, name string, keywords []string) []richtext.Block {
	userPrompt := "Subject: " + name
	if len(keywords) > 0 {
		userPrompt = fmt.Sprintf("<!-- keywords: %s -->\n%s", strings.Join(keywords, ", "), userPrompt)
	}
	markdown, err := e.texts.Generate(ctx, llm.BiographySystemPrompt, userPrompt)
	if err != nil {
		e.logger.Warn("biography generation failed", logging.String("name", name), logging.Error(err))
		return nil
	}
	return richtext.Convert(markdown)
}

func (e *Enricher) generateIntro(ctx context.Context, name string) []richtext.Block {
	intro, err := e.texts.Generate(ctx, llm.IntroSystemPrompt, "Subject: "+name)
	if err != nil {
		e.logger.Warn("intro generation failed", logging.String("name", name), logging.Error(err))
		return nil
	}
	return richtext.Convert(intro)
}

func (e *Enricher) generateFAQs(ctx context.Context, name string) []catalog.FAQ {
	content, err := e.texts.CompleteJSON(ctx, llm.FAQListSystemPrompt, "Subject: "+name)
	if err != nil {
		e.logger.Warn("faq generation failed", logging.String("name", name), logging.Error(err))
		return nil
	}
	faqs, err := ParseFAQList(content)
	if err != nil {
		e.logger.Warn("faq payload unusable", logging.String("name", name), logging.Error(err))
		return nil
	}
	return faqs
}

func (e *Enricher) ingestImage(ctx context.Context, sourceURL string) string {
	ref, err := e.images.Ingest(ctx, sourceURL)
	if err != nil {
		e.logger.Warn("image ingest failed",
			logging.String("url", sourceURL),
			logging.Error(err))
		return ""
	}
	return ref
}
