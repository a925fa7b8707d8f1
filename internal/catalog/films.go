package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const filmColumns = "id, tmdb_id, title, credits_json, created_at, updated_at"

// CreateFilm inserts a new film document.
func (s *Store) CreateFilm(ctx context.Context, film *Film) (*Film, error) {
	if film == nil {
		return nil, errors.New("film is nil")
	}
	if film.TMDBID <= 0 {
		return nil, errors.New("film tmdb id required")
	}
	if strings.TrimSpace(film.Title) == "" {
		return nil, errors.New("film title required")
	}
	if film.ID == "" {
		film.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	film.CreatedAt = now
	film.UpdatedAt = now

	credits, err := marshalList(film.Credits)
	if err != nil {
		return nil, err
	}
	err = s.execWithRetry(
		ctx,
		`INSERT INTO films (`+filmColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		film.ID,
		film.TMDBID,
		film.Title,
		nullableString(credits),
		formatTime(film.CreatedAt),
		formatTime(film.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert film: %w", err)
	}
	return s.GetFilmByID(ctx, film.ID)
}

// GetFilmByID fetches a film document by identifier.
func (s *Store) GetFilmByID(ctx context.Context, id string) (*Film, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+filmColumns+` FROM films WHERE id = ?`, id)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get film: %w", err)
	}
	return film, nil
}

// FindFilmByTMDBID returns the film holding the external source ID, or nil.
func (s *Store) FindFilmByTMDBID(ctx context.Context, tmdbID int64) (*Film, error) {
	if tmdbID <= 0 {
		return nil, nil
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+filmColumns+` FROM films WHERE tmdb_id = ?`, tmdbID)
	film, err := scanFilm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find film by tmdb id: %w", err)
	}
	return film, nil
}

// ListFilms returns every film ordered by creation time.
func (s *Store) ListFilms(ctx context.Context) ([]*Film, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+filmColumns+` FROM films ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list films: %w", err)
	}
	defer rows.Close()

	var films []*Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, err
		}
		films = append(films, film)
	}
	return films, rows.Err()
}

// AppendFilmCredit appends a person credit to the film unless that person is
// already linked. It reports whether an entry was added.
func (s *Store) AppendFilmCredit(ctx context.Context, id string, credit FilmCredit) (bool, error) {
	film, err := s.GetFilmByID(ctx, id)
	if err != nil {
		return false, err
	}
	if film == nil {
		return false, fmt.Errorf("append film credit: no document with id %s", id)
	}
	if credit.PersonID == "" {
		return false, errors.New("append film credit: person id required")
	}
	if film.HasPersonCredit(credit.PersonID) {
		return false, nil
	}
	if credit.Key == "" {
		credit.Key = uuid.NewString()
	}

	film.Credits = append(film.Credits, credit)
	credits, err := marshalList(film.Credits)
	if err != nil {
		return false, err
	}
	err = s.execWithRetry(
		ctx,
		`UPDATE films SET credits_json = ?, updated_at = ? WHERE id = ?`,
		nullableString(credits),
		formatTime(time.Now().UTC()),
		film.ID,
	)
	if err != nil {
		return false, fmt.Errorf("append film credit: %w", err)
	}
	return true, nil
}

func scanFilm(scanner interface{ Scan(dest ...any) error }) (*Film, error) {
	var (
		id         string
		tmdbID     int64
		title      string
		credits    sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)

	if err := scanner.Scan(&id, &tmdbID, &title, &credits, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	film := &Film{
		ID:     id,
		TMDBID: tmdbID,
		Title:  title,
	}
	if err := unmarshalList(credits, &film.Credits); err != nil {
		return nil, fmt.Errorf("decode film credits: %w", err)
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		film.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		film.UpdatedAt = updated
	}
	return film, nil
}
