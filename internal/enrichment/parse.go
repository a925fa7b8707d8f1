package enrichment

import (
	"fmt"
	"strings"

	"powerfulchat/internal/catalog"
	"powerfulchat/internal/services/llm"
)

// Typed parse boundary for model output. Raw completion payloads are decoded
// into concrete types here and nowhere else, so a malformed response surfaces
// as a single well-labeled error instead of a panic deep in the pipeline.

type keywordPayload struct {
	Keywords []string `json:"keywords"`
}

type faqPayload struct {
	FAQs []catalog.FAQ `json:"faqs"`
}

type deceasedPayload struct {
	IsDeceased bool   `json:"is_deceased"`
	DeathDate  string `json:"death_date"`
}

// ParseKeywordList decodes a keyword payload, accepting both the documented
// object shape and a bare JSON array.
func ParseKeywordList(content string) ([]string, error) {
	var payload keywordPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		var bare []string
		if bareErr := llm.DecodeJSON(content, &bare); bareErr == nil {
			payload.Keywords = bare
		} else {
			return nil, fmt.Errorf("parse keyword list: %w", err)
		}
	}
	var keywords []string
	for _, keyword := range payload.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		keywords = append(keywords, keyword)
	}
	return keywords, nil
}

// ParseFAQList decodes an FAQ payload and drops incomplete entries.
func ParseFAQList(content string) ([]catalog.FAQ, error) {
	var payload faqPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return nil, fmt.Errorf("parse faq list: %w", err)
	}
	var faqs []catalog.FAQ
	for _, faq := range payload.FAQs {
		faq.Question = strings.TrimSpace(faq.Question)
		faq.Answer = strings.TrimSpace(faq.Answer)
		if faq.Question == "" || faq.Answer == "" {
			continue
		}
		faqs = append(faqs, faq)
	}
	return faqs, nil
}

// ParseDeceasedReport decodes a life-status payload. Date validation is the
// caller's concern; the raw date string passes through untouched.
func ParseDeceasedReport(content string) (DeceasedReport, error) {
	var payload deceasedPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return DeceasedReport{}, fmt.Errorf("parse deceased report: %w", err)
	}
	return DeceasedReport{
		IsDeceased: payload.IsDeceased,
		DeathDate:  strings.TrimSpace(payload.DeathDate),
	}, nil
}
