package enrichment

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"log/slog"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/logging"
	"powerfulchat/internal/retrypolicy"
	"powerfulchat/internal/services"
	"powerfulchat/internal/services/tmdb"
)

// MetadataSource supplies person metadata and filmographies from the
// external movie database.
type MetadataSource interface {
	GetPerson(ctx context.Context, personID int64) (*tmdb.Person, error)
	GetCombinedCredits(ctx context.Context, personID int64) (*tmdb.CombinedCredits, error)
}

// TextGenerator produces generative text for profile fields. Complete answers
// one terse factual question, Generate writes long-form prose under a custom
// system prompt, and CompleteJSON returns a raw JSON payload for the typed
// parsers in parse.go.
type TextGenerator interface {
	Complete(ctx context.Context, subject, instruction string) (string, error)
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DeceasedChecker reports whether a person is deceased and, when documented,
// the date of death.
type DeceasedChecker interface {
	CheckDeceased(ctx context.Context, name, dateOfBirth string) (DeceasedReport, error)
}

// ImageIngester copies a remote image into managed storage and returns a
// stable reference to it.
type ImageIngester interface {
	Ingest(ctx context.Context, sourceURL string) (string, error)
}

// FilmImporter creates the catalog document for a film known only by its
// external source ID. The write may lag behind reads, so callers re-query
// with a retry policy rather than expecting the document back. A false
// result with a nil error means the film could not be resolved.
type FilmImporter interface {
	ImportFilm(ctx context.Context, tmdbID int64) (bool, error)
}

// Options wires an Enricher. Store, Source, Texts, Images, and Importer are
// required; Deceased defaults to an LLM-backed checker built from Texts.
type Options struct {
	Store    *catalog.Store
	Source   MetadataSource
	Texts    TextGenerator
	Deceased DeceasedChecker
	Images   ImageIngester
	Importer FilmImporter
	Logger   *slog.Logger

	// Visibility governs the read-after-write retry loop used when a film
	// document was just imported but is not yet visible to queries. Zero
	// value selects 5 attempts with a linear 500ms base and 500ms step.
	Visibility retrypolicy.Policy

	// PowerMeterMin and PowerMeterMax bound the popularity score assigned to
	// newly created persons. Zero values select 40 and 90.
	PowerMeterMin int
	PowerMeterMax int
}

// ProcessOptions selects what a single ProcessPerson run should do.
type ProcessOptions struct {
	// ImportBiography enables the generative biography, intro, keyword, and
	// FAQ fields. Without it only sourced metadata is written.
	ImportBiography bool
	// CreditsOnly makes the run link the person's full filmography instead
	// of generating biography content.
	CreditsOnly bool
	// OriginFilmTMDBID optionally names the film whose page triggered this
	// run; when set the person is credited on it.
	OriginFilmTMDBID int64
	// OriginRole is the role recorded for the origin film credit. Empty
	// falls back to "Unknown".
	OriginRole string
}

const (
	defaultVisibilityAttempts = 5
	defaultVisibilityBase     = 500 * time.Millisecond
	defaultVisibilityStep     = 500 * time.Millisecond

	defaultPowerMeterMin = 40
	defaultPowerMeterMax = 90

	roleUnknown       = "Unknown"
	departmentActing  = "Acting"
	departmentCrew    = "Production"
	departmentUnknown = "Unknown"
)

// Enricher drives the person enrichment pipeline against the catalog store.
// All external collaborators are injected, so tests can substitute fakes for
// the metadata source, the text generator, and the rest.
type Enricher struct {
	store      *catalog.Store
	source     MetadataSource
	texts      TextGenerator
	deceased   DeceasedChecker
	images     ImageIngester
	importer   FilmImporter
	logger     *slog.Logger
	visibility retrypolicy.Policy
	powerMin   int
	powerMax   int
	randInt    func(n int) int
}

// New builds an Enricher from the supplied options.
func New(opts Options) (*Enricher, error) {
	if opts.Store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new", "catalog store required", nil)
	}
	if opts.Source == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new", "metadata source required", nil)
	}
	if opts.Texts == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new", "text generator required", nil)
	}
	if opts.Images == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new", "image ingester required", nil)
	}
	if opts.Importer == nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrichment", "new", "film importer required", nil)
	}

	deceased := opts.Deceased
	if deceased == nil {
		deceased = NewLLMDeceasedChecker(opts.Texts)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	visibility := opts.Visibility
	if visibility.MaxAttempts < 1 {
		visibility.MaxAttempts = defaultVisibilityAttempts
	}
	if visibility.Backoff == nil {
		visibility.Backoff = retrypolicy.Linear(defaultVisibilityBase, defaultVisibilityStep)
	}
	if visibility.Retryable == nil {
		// Only wait out documents that have not appeared yet; store failures
		// surface immediately.
		visibility.Retryable = func(err error) bool {
			return errors.Is(err, retrypolicy.ErrNotDone)
		}
	}

	powerMin := opts.PowerMeterMin
	powerMax := opts.PowerMeterMax
	if powerMin <= 0 {
		powerMin = defaultPowerMeterMin
	}
	if powerMax <= 0 {
		powerMax = defaultPowerMeterMax
	}
	if powerMax < powerMin {
		powerMax = powerMin
	}

	return &Enricher{
		store:      opts.Store,
		source:     opts.Source,
		texts:      opts.Texts,
		deceased:   deceased,
		images:     opts.Images,
		importer:   opts.Importer,
		logger:     logging.WithComponent(logger, "enrichment"),
		visibility: visibility,
		powerMin:   powerMin,
		powerMax:   powerMax,
		randInt:    rand.Intn,
	}, nil
}

func (e *Enricher) powerMeter() int {
	span := e.powerMax - e.powerMin + 1
	if span <= 1 {
		return e.powerMin
	}
	return e.powerMin + e.randInt(span)
}
