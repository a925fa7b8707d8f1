package enrichment

import (
	"context"
	"fmt"

	"log/slog"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/logging"
)

// Reconciler repairs one-sided credit links. Because film-side and
// person-side appends are separate writes, a crash or a skipped entry can
// leave a credit recorded on only one document; a reconciliation pass walks
// both collections and restores the missing side.
type Reconciler struct {
	store  *catalog.Store
	logger *slog.Logger
}

// NewReconciler builds a reconciler over the catalog store.
func NewReconciler(store *catalog.Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		store:  store,
		logger: logging.WithComponent(logger, "reconcile"),
	}
}

// Report summarizes one reconciliation pass.
type Report struct {
	PersonsScanned  int
	FilmsScanned    int
	FilmSideAdded   int
	PersonSideAdded int
	Orphans         int
}

// Repair scans every credit on both collections and appends the missing
// counterpart entry where only one side is linked. Credits pointing at
// documents that do not exist are counted as orphans and left alone; there
// is nothing to attach the missing side to.
func (r *Reconciler) Repair(ctx context.Context) (Report, error) {
	var report Report

	persons, err := r.store.ListPersons(ctx)
	if err != nil {
		return report, fmt.Errorf("reconcile: %w", err)
	}
	films, err := r.store.ListFilms(ctx)
	if err != nil {
		return report, fmt.Errorf("reconcile: %w", err)
	}
	report.PersonsScanned = len(persons)
	report.FilmsScanned = len(films)

	filmsByID := make(map[string]*catalog.Film, len(films))
	for _, film := range films {
		filmsByID[film.ID] = film
	}
	personsByID := make(map[string]*catalog.Person, len(persons))
	for _, person := range persons {
		personsByID[person.ID] = person
	}

	for _, person := range persons {
		for _, credit := range person.Credits {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			film, ok := filmsByID[credit.FilmID]
			if !ok {
				report.Orphans++
				r.logger.Warn("credit references missing film",
					logging.String("person_id", person.ID),
					logging.String("film_id", credit.FilmID))
				continue
			}
			if film.HasPersonCredit(person.ID) {
				continue
			}
			added, err := r.store.AppendFilmCredit(ctx, film.ID, catalog.FilmCredit{
				PersonID:   person.ID,
				Role:       credit.Role,
				Department: departmentUnknown,
			})
			if err != nil {
				return report, fmt.Errorf("reconcile film %s: %w", film.ID, err)
			}
			if added {
				report.FilmSideAdded++
				film.Credits = append(film.Credits, catalog.FilmCredit{PersonID: person.ID})
			}
		}
	}

	for _, film := range films {
		for _, credit := range film.Credits {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			person, ok := personsByID[credit.PersonID]
			if !ok {
				report.Orphans++
				r.logger.Warn("credit references missing person",
					logging.String("film_id", film.ID),
					logging.String("person_id", credit.PersonID))
				continue
			}
			if person.HasFilmCredit(film.ID) {
				continue
			}
			added, err := r.store.AppendPersonCredit(ctx, person.ID, catalog.PersonCredit{
				FilmID: film.ID,
				Role:   credit.Role,
			})
			if err != nil {
				return report, fmt.Errorf("reconcile person %s: %w", person.ID, err)
			}
			if added {
				report.PersonSideAdded++
				person.Credits = append(person.Credits, catalog.PersonCredit{FilmID: film.ID})
			}
		}
	}

	r.logger.Info("reconciliation complete",
		logging.Int("persons", report.PersonsScanned),
		logging.Int("films", report.FilmsScanned),
		logging.Int("film_side_added", report.FilmSideAdded),
		logging.Int("person_side_added", report.PersonSideAdded),
		logging.Int("orphans", report.Orphans))
	return report, nil
}
