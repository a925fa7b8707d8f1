package enrichment

import (
	"context"
	"strings"

	"log/slog"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/logging"
	"powerfulchat/internal/services/tmdb"
)

// MovieAPI is the slice of the metadata source the film importer needs.
type MovieAPI interface {
	GetMovieDetails(ctx context.Context, movieID int64) (*tmdb.Movie, error)
}

// CatalogFilmImporter resolves a film through the metadata source and creates
// its catalog document.
type CatalogFilmImporter struct {
	store  *catalog.Store
	movies MovieAPI
	logger *slog.Logger
}

var _ FilmImporter = (*CatalogFilmImporter)(nil)

// NewCatalogFilmImporter builds the default film importer.
func NewCatalogFilmImporter(store *catalog.Store, movies MovieAPI, logger *slog.Logger) *CatalogFilmImporter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CatalogFilmImporter{
		store:  store,
		movies: movies,
		logger: logging.WithComponent(logger, "film-import"),
	}
}

// ImportFilm fetches movie details and creates the film document. Films the
// source does not know, or that carry no title, are reported unresolved
// rather than failed so the caller can skip the credit.
func (i *CatalogFilmImporter) ImportFilm(ctx context.Context, tmdbID int64) (bool, error) {
	movie, err := i.movies.GetMovieDetails(ctx, tmdbID)
	if err != nil {
		i.logger.Warn("movie details lookup failed",
			logging.Int64("tmdb_id", tmdbID),
			logging.Error(err))
		return false, nil
	}
	if movie == nil || strings.TrimSpace(movie.Title) == "" {
		return false, nil
	}

	_, err = i.store.CreateFilm(ctx, &catalog.Film{
		TMDBID: tmdbID,
		Title:  strings.TrimSpace(movie.Title),
	})
	if err != nil {
		// A concurrent import may have won the unique tmdb_id race; the
		// follow-up lookup decides whether the film exists.
		existing, lookupErr := i.store.FindFilmByTMDBID(ctx, tmdbID)
		if lookupErr == nil && existing != nil {
			return true, nil
		}
		return false, err
	}
	i.logger.Info("imported film",
		logging.Int64("tmdb_id", tmdbID),
		logging.String("title", movie.Title))
	return true, nil
}
