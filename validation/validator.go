package validation

import (
	"fmt"
	"sort"
	"strings"

	"marketflow/types"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Error aggregates every violation found while validating an article. It is
// a terminal client error: the orchestrator does not retry it.
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	return "article validation failed: " + strings.Join(e.Violations, "; ")
}

// ValidateArticle builds a validated Article from raw CMS fields or returns
// an *Error listing every violation.
func ValidateArticle(fields types.RawFields) (*types.Article, *Error) {
	article := &types.Article{
		Title:        strings.TrimSpace(fields.Title),
		Body:         fields.Body,
		Summary:      fields.Summary,
		CampaignTags: fields.CampaignTags,
		AltText:      fields.AltText,
		HasImages:    fields.HasImages,
		CTAText:      fields.CTAText,
		CTAURL:       fields.CTAURL,
		ContentType:  "article",
	}

	var violations []string

	if err := validate.Struct(article); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				violations = append(violations, describeFieldError(fe))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	if msg := checkCampaignTags(article.CampaignTags); msg != "" {
		violations = append(violations, msg)
	}

	if article.HasImages && article.AltText == "" {
		violations = append(violations, "alt text is required when article contains images")
	}

	if article.CTAURL != "" &&
		!strings.HasPrefix(article.CTAURL, "http://") &&
		!strings.HasPrefix(article.CTAURL, "https://") {
		violations = append(violations, "CTA URL must be a valid HTTP/HTTPS URL")
	}

	if len(violations) > 0 {
		return nil, &Error{Violations: violations}
	}
	return article, nil
}

// checkCampaignTags verifies the tags against the controlled vocabulary and,
// on failure, builds an error message naming the offending tokens with up to
// three fuzzy-matched suggestions each and the full sorted valid list.
func checkCampaignTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	var invalid []string
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if !IsAllowedTag(tag) {
			invalid = append(invalid, tag)
		}
	}
	if len(invalid) == 0 {
		return ""
	}
	sort.Strings(invalid)

	allowed := AllowedCampaignTags()

	var b strings.Builder
	fmt.Fprintf(&b, "invalid tags: %s.", strings.Join(invalid, ", "))

	var suggested []string
	for _, tag := range invalid {
		if matches := closeMatches(tag, allowed); len(matches) > 0 {
			suggested = append(suggested, fmt.Sprintf("'%s' -> %s", tag, strings.Join(matches, ", ")))
		}
	}
	if len(suggested) > 0 {
		fmt.Fprintf(&b, " Suggestions: %s.", strings.Join(suggested, "; "))
	}

	fmt.Fprintf(&b, " Valid options: %s", strings.Join(allowed, ", "))
	return b.String()
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "required" {
			return "title is required"
		}
		return "title must be at most 70 characters"
	case "Body":
		if fe.Tag() == "required" {
			return "body is required"
		}
		return "body must be at least 100 characters"
	case "Summary":
		return "summary must be at most 160 characters"
	case "CampaignTags":
		return "campaign tags must contain at least one entry"
	case "CTAText":
		return "CTA text must be at most 80 characters"
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
