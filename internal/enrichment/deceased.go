package enrichment

import (
	"context"
	"fmt"
	"time"

	"powerfulchat/internal/services/llm"
)

// DeceasedReport is the outcome of a life-status check.
type DeceasedReport struct {
	IsDeceased bool
	DeathDate  string
}

// LLMDeceasedChecker verifies life status through the text generator. Model
// answers are treated as untrusted: only a strictly formatted, calendar-valid
// death date is kept, anything else collapses to alive/unknown.
type LLMDeceasedChecker struct {
	texts TextGenerator
}

// NewLLMDeceasedChecker builds a checker on top of the given generator.
func NewLLMDeceasedChecker(texts TextGenerator) *LLMDeceasedChecker {
	return &LLMDeceasedChecker{texts: texts}
}

// CheckDeceased asks the model whether the named person is deceased.
func (c *LLMDeceasedChecker) CheckDeceased(ctx context.Context, name, dateOfBirth string) (DeceasedReport, error) {
	userPrompt := fmt.Sprintf("Name: %s", name)
	if dateOfBirth != "" {
		userPrompt += fmt.Sprintf("\nDate of birth: %s", dateOfBirth)
	}
	content, err := c.texts.CompleteJSON(ctx, llm.DeceasedCheckSystemPrompt, userPrompt)
	if err != nil {
		return DeceasedReport{}, fmt.Errorf("deceased check: %w", err)
	}
	report, err := ParseDeceasedReport(content)
	if err != nil {
		return DeceasedReport{}, err
	}
	return sanitizeDeceasedReport(report), nil
}

// sanitizeDeceasedReport drops a deceased claim whose date fails strict
// validation. A missing date is allowed; a malformed one is not trusted.
func sanitizeDeceasedReport(report DeceasedReport) DeceasedReport {
	if !report.IsDeceased {
		return DeceasedReport{}
	}
	if report.DeathDate != "" && !ValidDate(report.DeathDate) {
		return DeceasedReport{}
	}
	return report
}

// ValidDate reports whether value is a real calendar date in strict
// YYYY-MM-DD form. Partial dates and alternate formats are rejected.
func ValidDate(value string) bool {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return false
	}
	return parsed.Format("2006-01-02") == value
}
