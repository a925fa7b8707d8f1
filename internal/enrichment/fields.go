package enrichment

import (
	"context"
	"strings"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/logging"
)

// Instructions for the terse factual fields. The factual system prompt makes
// the model answer "Unknown" when it does not know; unknownToEmpty folds that
// back to an empty string so the field stays backfillable.
const (
	instructionCountry     = "Which country is this person from? Answer with the country name only."
	instructionBirthDate   = "What is this person's date of birth? Answer in YYYY-MM-DD format only."
	instructionProfessions = "List this person's professions as a comma-separated list, most notable first."
	instructionEthnicity   = "What is this person's ethnicity? Answer with a comma-separated list."
	instructionEyeColor    = "What is this person's eye color? Answer with the color only."
	instructionHairColor   = "What is this person's hair color? Answer with the color only."
	instructionHeight      = "What is this person's height in the form 5'8\" (173 cm)."
	instructionBodyType    = "What is this person's body type? Answer with one short phrase."
)

// completeField asks one factual question and absorbs every failure into an
// empty string. Generative fields degrade rather than abort a run.
func (e *Enricher) completeField(ctx context.Context, subject, instruction string) string {
	answer, err := e.texts.Complete(ctx, subject, instruction)
	if err != nil {
		e.logger.Warn("generative field failed",
			logging.String("subject", subject),
			logging.String("instruction", instruction),
			logging.Error(err))
		return ""
	}
	return unknownToEmpty(answer)
}

// completeListField asks one factual question expecting a comma-separated
// answer and returns the cleaned items.
func (e *Enricher) completeListField(ctx context.Context, subject, instruction string) []string {
	return splitCommaList(e.completeField(ctx, subject, instruction))
}

func unknownToEmpty(answer string) string {
	answer = strings.TrimSpace(answer)
	if strings.EqualFold(answer, "unknown") {
		return ""
	}
	return answer
}

func splitCommaList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, part)
	}
	return items
}

// mapGender translates the numeric gender code from the metadata source.
func mapGender(code int) string {
	switch code {
	case 1:
		return catalog.GenderFemale
	case 2:
		return catalog.GenderMale
	case 3:
		return catalog.GenderNonBinary
	default:
		return catalog.GenderNotSpecified
	}
}

// adjustProfessions rewrites the generic "Actor" profession to "Actress" for
// female persons. Other entries pass through unchanged.
func adjustProfessions(professions []string, gender string) []string {
	if gender != catalog.GenderFemale {
		return professions
	}
	adjusted := make([]string, len(professions))
	for i, profession := range professions {
		if strings.EqualFold(strings.TrimSpace(profession), "actor") {
			adjusted[i] = "Actress"
			continue
		}
		adjusted[i] = profession
	}
	return adjusted
}

// countryFromPlace extracts the country from a "City, Region, Country" place
// of birth string.
func countryFromPlace(place string) string {
	place = strings.TrimSpace(place)
	if place == "" {
		return ""
	}
	parts := strings.Split(place, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}
