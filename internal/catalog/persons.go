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

const personColumns = "id, tmdb_id, name, name_norm, slug, date_of_birth, country, gender, " +
	"professions_json, ethnicity_json, eye_color, hair_color, height, body_type, " +
	"is_deceased, death_date, intro_json, biography_json, keywords_json, faqs_json, " +
	"image_ref, power_meter, credits_json, created_at, updated_at"

// CreatePerson inserts a new person document as a single call. The document
// is assembled in memory first, so a partially created person cannot exist.
func (s *Store) CreatePerson(ctx context.Context, person *Person) (*Person, error) {
	if person == nil {
		return nil, errors.New("person is nil")
	}
	if strings.TrimSpace(person.Name) == "" {
		return nil, errors.New("person name required")
	}
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	person.CreatedAt = now
	person.UpdatedAt = now

	professions, err := marshalList(person.Professions)
	if err != nil {
		return nil, err
	}
	ethnicity, err := marshalList(person.Ethnicity)
	if err != nil {
		return nil, err
	}
	intro, err := marshalList(person.Intro)
	if err != nil {
		return nil, err
	}
	biography, err := marshalList(person.Biography)
	if err != nil {
		return nil, err
	}
	keywords, err := marshalList(person.Keywords)
	if err != nil {
		return nil, err
	}
	faqs, err := marshalList(person.FAQs)
	if err != nil {
		return nil, err
	}
	credits, err := marshalList(person.Credits)
	if err != nil {
		return nil, err
	}

	err = s.execWithRetry(
		ctx,
		`INSERT INTO persons (`+personColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		person.ID,
		nullableInt64(person.TMDBID),
		person.Name,
		normalizeName(person.Name),
		person.Slug,
		nullableString(person.DateOfBirth),
		nullableString(person.Country),
		nullableString(person.Gender),
		nullableString(professions),
		nullableString(ethnicity),
		nullableString(person.EyeColor),
		nullableString(person.HairColor),
		nullableString(person.Height),
		nullableString(person.BodyType),
		boolToInt(person.IsDeceased),
		nullableString(person.DeathDate),
		nullableString(intro),
		nullableString(biography),
		nullableString(keywords),
		nullableString(faqs),
		nullableString(person.ImageRef),
		person.PowerMeter,
		nullableString(credits),
		formatTime(person.CreatedAt),
		formatTime(person.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	return s.GetPersonByID(ctx, person.ID)
}

// GetPersonByID fetches a person document by identifier.
func (s *Store) GetPersonByID(ctx context.Context, id string) (*Person, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+personColumns+` FROM persons WHERE id = ?`, id)
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return person, nil
}

// FindPersonByTMDBID returns the person holding the external source ID, or
// nil when none exists.
func (s *Store) FindPersonByTMDBID(ctx context.Context, tmdbID int64) (*Person, error) {
	if tmdbID <= 0 {
		return nil, nil
	}
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+personColumns+` FROM persons WHERE tmdb_id = ?`, tmdbID)
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person by tmdb id: %w", err)
	}
	return person, nil
}

// FindPersonByName returns the first person whose name matches after
// whitespace and case folding, or nil when none exists.
func (s *Store) FindPersonByName(ctx context.Context, name string) (*Person, error) {
	norm := normalizeName(name)
	if norm == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+personColumns+` FROM persons WHERE name_norm = ? ORDER BY created_at LIMIT 1`,
		norm,
	)
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person by name: %w", err)
	}
	return person, nil
}

// FindPersonBySlug returns the person with the given slug, or nil.
func (s *Store) FindPersonBySlug(ctx context.Context, slugValue string) (*Person, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+personColumns+` FROM persons WHERE slug = ? ORDER BY created_at LIMIT 1`,
		slugValue,
	)
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find person by slug: %w", err)
	}
	return person, nil
}

// ListPersons returns every person ordered by creation time.
func (s *Store) ListPersons(ctx context.Context) ([]*Person, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT `+personColumns+` FROM persons ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []*Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}
	return persons, rows.Err()
}

// BackfillPerson fills the supplied fields on an existing person, but only
// where the stored value is currently empty. Populated fields are never
// overwritten, so manual edits and earlier enrichment runs survive.
func (s *Store) BackfillPerson(ctx context.Context, id string, fill PersonBackfill) (*Person, error) {
	person, err := s.GetPersonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, fmt.Errorf("backfill person: no document with id %s", id)
	}

	changed := false
	if person.TMDBID == 0 && fill.TMDBID > 0 {
		person.TMDBID = fill.TMDBID
		changed = true
	}
	if !person.HasIntro() && len(fill.Intro) > 0 {
		person.Intro = fill.Intro
		changed = true
	}
	if !person.HasBiography() && len(fill.Biography) > 0 {
		person.Biography = fill.Biography
		changed = true
	}
	if len(person.Keywords) == 0 && len(fill.Keywords) > 0 {
		person.Keywords = fill.Keywords
		changed = true
	}
	if len(person.FAQs) == 0 && len(fill.FAQs) > 0 {
		person.FAQs = fill.FAQs
		changed = true
	}
	if person.ImageRef == "" && fill.ImageRef != "" {
		person.ImageRef = fill.ImageRef
		changed = true
	}
	if !changed {
		return person, nil
	}

	intro, err := marshalList(person.Intro)
	if err != nil {
		return nil, err
	}
	biography, err := marshalList(person.Biography)
	if err != nil {
		return nil, err
	}
	keywords, err := marshalList(person.Keywords)
	if err != nil {
		return nil, err
	}
	faqs, err := marshalList(person.FAQs)
	if err != nil {
		return nil, err
	}

	person.UpdatedAt = time.Now().UTC()
	err = s.execWithRetry(
		ctx,
		`UPDATE persons SET tmdb_id = ?, intro_json = ?, biography_json = ?,
             keywords_json = ?, faqs_json = ?, image_ref = ?, updated_at = ?
         WHERE id = ?`,
		nullableInt64(person.TMDBID),
		nullableString(intro),
		nullableString(biography),
		nullableString(keywords),
		nullableString(faqs),
		nullableString(person.ImageRef),
		formatTime(person.UpdatedAt),
		person.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("backfill person: %w", err)
	}
	return person, nil
}

// AppendPersonCredit appends a film credit to the person unless that film is
// already linked. It reports whether an entry was added.
func (s *Store) AppendPersonCredit(ctx context.Context, id string, credit PersonCredit) (bool, error) {
	person, err := s.GetPersonByID(ctx, id)
	if err != nil {
		return false, err
	}
	if person == nil {
		return false, fmt.Errorf("append person credit: no document with id %s", id)
	}
	if credit.FilmID == "" {
		return false, errors.New("append person credit: film id required")
	}
	if person.HasFilmCredit(credit.FilmID) {
		return false, nil
	}
	if credit.Key == "" {
		credit.Key = uuid.NewString()
	}

	person.Credits = append(person.Credits, credit)
	credits, err := marshalList(person.Credits)
	if err != nil {
		return false, err
	}
	err = s.execWithRetry(
		ctx,
		`UPDATE persons SET credits_json = ?, updated_at = ? WHERE id = ?`,
		nullableString(credits),
		formatTime(time.Now().UTC()),
		person.ID,
	)
	if err != nil {
		return false, fmt.Errorf("append person credit: %w", err)
	}
	return true, nil
}

func scanPerson(scanner interface{ Scan(dest ...any) error }) (*Person, error) {
	var (
		id          string
		tmdbID      sql.NullInt64
		name        string
		nameNorm    string
		slugValue   sql.NullString
		dateOfBirth sql.NullString
		country     sql.NullString
		gender      sql.NullString
		professions sql.NullString
		ethnicity   sql.NullString
		eyeColor    sql.NullString
		hairColor   sql.NullString
		height      sql.NullString
		bodyType    sql.NullString
		isDeceased  sql.NullInt64
		deathDate   sql.NullString
		intro       sql.NullString
		biography   sql.NullString
		keywords    sql.NullString
		faqs        sql.NullString
		imageRef    sql.NullString
		powerMeter  sql.NullInt64
		credits     sql.NullString
		createdRaw  sql.NullString
		updatedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&tmdbID,
		&name,
		&nameNorm,
		&slugValue,
		&dateOfBirth,
		&country,
		&gender,
		&professions,
		&ethnicity,
		&eyeColor,
		&hairColor,
		&height,
		&bodyType,
		&isDeceased,
		&deathDate,
		&intro,
		&biography,
		&keywords,
		&faqs,
		&imageRef,
		&powerMeter,
		&credits,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	person := &Person{
		ID:          id,
		TMDBID:      tmdbID.Int64,
		Name:        name,
		Slug:        slugValue.String,
		DateOfBirth: dateOfBirth.String,
		Country:     country.String,
		Gender:      gender.String,
		EyeColor:    eyeColor.String,
		HairColor:   hairColor.String,
		Height:      height.String,
		BodyType:    bodyType.String,
		IsDeceased:  isDeceased.Int64 != 0,
		DeathDate:   deathDate.String,
		ImageRef:    imageRef.String,
		PowerMeter:  int(powerMeter.Int64),
	}
	if err := unmarshalList(professions, &person.Professions); err != nil {
		return nil, fmt.Errorf("decode professions: %w", err)
	}
	if err := unmarshalList(ethnicity, &person.Ethnicity); err != nil {
		return nil, fmt.Errorf("decode ethnicity: %w", err)
	}
	if err := unmarshalList(intro, &person.Intro); err != nil {
		return nil, fmt.Errorf("decode intro: %w", err)
	}
	if err := unmarshalList(biography, &person.Biography); err != nil {
		return nil, fmt.Errorf("decode biography: %w", err)
	}
	if err := unmarshalList(keywords, &person.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	if err := unmarshalList(faqs, &person.FAQs); err != nil {
		return nil, fmt.Errorf("decode faqs: %w", err)
	}
	if err := unmarshalList(credits, &person.Credits); err != nil {
		return nil, fmt.Errorf("decode credits: %w", err)
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		person.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		person.UpdatedAt = updated
	}
	return person, nil
}
