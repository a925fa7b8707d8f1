package enrichment

import (
	"context"
	"strings"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/logging"
	"powerfulchat/internal/retrypolicy"
	"powerfulchat/internal/services"
	"powerfulchat/internal/services/tmdb"
)

// LinkFilmCredits walks the person's combined filmography and materializes
// each credit on both sides: an entry on the film document and one on the
// person document. The two writes are independent, matching the store's
// no-transaction model; a crash between them leaves a one-sided link that
// the reconciler repairs.
//
// The operation converges: both append helpers skip pairs that are already
// linked, so re-running it adds nothing. Per-entry failures are logged and
// skipped rather than aborting the walk, which keeps one missing film from
// sinking the rest of the filmography.
func (e *Enricher) LinkFilmCredits(ctx context.Context, person *catalog.Person) error {
	if person == nil {
		return services.Wrap(services.ErrValidation, "enrichment", "link film credits", "person required", nil)
	}

	credits, err := e.source.GetCombinedCredits(ctx, person.TMDBID)
	if err != nil {
		e.logger.Warn("filmography lookup failed, nothing to link",
			logging.Int64("tmdb_id", person.TMDBID),
			logging.Error(err))
		return nil
	}
	if credits == nil || (len(credits.Cast) == 0 && len(credits.Crew) == 0) {
		return nil
	}

	linked := 0
	for _, entry := range credits.Cast {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.linkOneCredit(ctx, person, entry, true) {
			linked++
		}
	}
	for _, entry := range credits.Crew {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.linkOneCredit(ctx, person, entry, false) {
			linked++
		}
	}

	e.logger.Info("linked filmography",
		logging.String("person_id", person.ID),
		logging.Int("entries", len(credits.Cast)+len(credits.Crew)),
		logging.Int("linked", linked))
	return nil
}

func (e *Enricher) linkOneCredit(ctx context.Context, person *catalog.Person, entry tmdb.CreditEntry, cast bool) bool {
	if entry.ID <= 0 {
		return false
	}

	film := e.resolveFilm(ctx, entry.ID)
	if film == nil {
		e.logger.Warn("film unavailable, credit skipped",
			logging.String("person_id", person.ID),
			logging.Int64("film_tmdb_id", entry.ID),
			logging.String("title", entry.DisplayTitle()))
		return false
	}

	role, department := creditRole(entry, cast)

	filmAdded, err := e.store.AppendFilmCredit(ctx, film.ID, catalog.FilmCredit{
		PersonID:   person.ID,
		Role:       role,
		Department: department,
	})
	if err != nil {
		e.logger.Warn("film-side credit failed",
			logging.String("film_id", film.ID),
			logging.String("person_id", person.ID),
			logging.Error(err))
	}

	personAdded, err := e.store.AppendPersonCredit(ctx, person.ID, catalog.PersonCredit{
		FilmID: film.ID,
		Role:   role,
	})
	if err != nil {
		e.logger.Warn("person-side credit failed",
			logging.String("film_id", film.ID),
			logging.String("person_id", person.ID),
			logging.Error(err))
	}
	return filmAdded || personAdded
}

// creditRole picks the display role and department for a filmography entry.
// Cast entries use the character name, crew entries the job title; either
// side may be blank in source data and falls back to "Unknown".
func creditRole(entry tmdb.CreditEntry, cast bool) (role, department string) {
	if cast {
		role = strings.TrimSpace(entry.Character)
		department = departmentActing
	} else {
		role = strings.TrimSpace(entry.Job)
		department = departmentCrew
	}
	if role == "" {
		role = roleUnknown
	}
	if !cast && strings.TrimSpace(entry.Department) != "" {
		department = strings.TrimSpace(entry.Department)
	}
	return role, department
}

// resolveFilm returns the catalog document for the external film ID, creating
// it through the importer when absent. A freshly imported document may not be
// visible to queries immediately, so the lookup is retried under the
// visibility policy before giving up. Nil means the film stays unresolved.
func (e *Enricher) resolveFilm(ctx context.Context, tmdbID int64) *catalog.Film {
	film, err := e.store.FindFilmByTMDBID(ctx, tmdbID)
	if err != nil {
		e.logger.Warn("film lookup failed", logging.Int64("film_tmdb_id", tmdbID), logging.Error(err))
		return nil
	}
	if film != nil {
		return film
	}

	imported, err := e.importer.ImportFilm(ctx, tmdbID)
	if err != nil {
		e.logger.Warn("film import failed", logging.Int64("film_tmdb_id", tmdbID), logging.Error(err))
		return nil
	}
	if !imported {
		return nil
	}

	err = e.visibility.Do(ctx, func(ctx context.Context) error {
		found, lookupErr := e.store.FindFilmByTMDBID(ctx, tmdbID)
		if lookupErr != nil {
			return lookupErr
		}
		if found == nil {
			return retrypolicy.ErrNotDone
		}
		film = found
		return nil
	})
	if err != nil {
		e.logger.Warn("imported film never became visible",
			logging.Int64("film_tmdb_id", tmdbID),
			logging.Error(err))
		return nil
	}
	return film
}
