package parser

import (
	"regexp"
	"strings"
)

// DefaultJobTitle is the sentinel used when no title can be found in a job
// description.
const DefaultJobTitle = "Unknown Position"

// ExperienceNotSpecified is the sentinel for a job description that states
// no experience requirement.
const ExperienceNotSpecified = "Not specified"

// JobRequirements is the structured view of a job description. Empty skill
// or qualification sets mean "nothing stated" and score as satisfied.
type JobRequirements struct {
	JobTitle         string
	MustHaveSkills   []string
	GoodToHaveSkills []string
	Qualifications   []string
	Experience       string
	Keywords         []string
	Text             string
}

var (
	explicitTitlePattern = regexp.MustCompile(`(?i)(?:job\s+title|position|role)[:\s]+([^\n]+)`)

	titleSectionWords = []string{"job description", "requirements", "responsibilities"}

	// Each requirement field is driven by an ordered family of patterns.
	// All matches of all patterns contribute to the same set: union, not
	// first-match-wins.
	mustHavePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:must|should|required|necessary|essential).*?(?:have|possess|know|understand).*?:?\s*([^.]+)`),
		regexp.MustCompile(`(?i)(?:requirements|skills required|mandatory).*?:?\s*([^.]+)`),
		regexp.MustCompile(`(?i)(?:experience|proficiency|expertise).*?(?:in|with|of).*?:?\s*([^.]+)`),
	}

	goodToHavePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:nice|good|prefer|advantage).*?(?:to have|if).*?:?\s*([^.]+)`),
		regexp.MustCompile(`(?i)(?:preferred|bonus|extra|nice to have).*?:?\s*([^.]+)`),
		regexp.MustCompile(`(?i)(?:optional|desirable).*?:?\s*([^.]+)`),
	}

	qualificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:degree|bachelor|master|phd|qualification).*?:?\s*([^.]+)`),
		regexp.MustCompile(`(?i)(?:education|educational).*?:?\s*([^.]+)`),
		regexp.MustCompile(`(?i)(?:academic).*?:?\s*([^.]+)`),
	}

	// First match wins; the matched phrase is returned verbatim.
	experiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+\+?\s*(?:years?|yrs?)\s*(?:experience|exp))`),
		regexp.MustCompile(`(?i)experience.*?:?\s*(\d+\+?\s*(?:years?|yrs?))`),
		regexp.MustCompile(`(?i)(\d+\+?\s*(?:years?|yrs?)\s*(?:of|in)\s*[a-z\s]+)`),
	}

	itemSeparatorPattern = regexp.MustCompile(`[,;]`)
	edgeNonWordPattern   = regexp.MustCompile(`^\W+|\W+$`)
)

// JDParser derives structured requirement lists from job description text.
// Like the resume parser it never fails: absent requirements yield empty
// sets or sentinels.
type JDParser struct{}

func NewJDParser() *JDParser {
	return &JDParser{}
}

func (p *JDParser) Parse(text string) *JobRequirements {
	return &JobRequirements{
		JobTitle:         p.extractJobTitle(text),
		MustHaveSkills:   extractItems(text, mustHavePatterns),
		GoodToHaveSkills: extractItems(text, goodToHavePatterns),
		Qualifications:   extractItems(text, qualificationPatterns),
		Experience:       p.extractExperience(text),
		Keywords:         extractKeywords(text, jobPostingStopWords),
		Text:             text,
	}
}

func (p *JDParser) extractJobTitle(text string) string {
	if m := explicitTitlePattern.FindStringSubmatch(text); m != nil {
		title := edgeNonWordPattern.ReplaceAllString(strings.TrimSpace(m[1]), "")
		if len(title) > 2 && len(title) < 100 {
			return title
		}
	}

	// Fall back to a short title-cased line near the top that is not a
	// section header.
	lines := strings.Split(text, "\n")
	if len(lines) > 10 {
		lines = lines[:10]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) > 3 && len(line) < 50 && isTitleCase(line) && !containsAny(line, titleSectionWords) {
			return line
		}
	}

	return DefaultJobTitle
}

func (p *JDParser) extractExperience(text string) string {
	for _, pattern := range experiencePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ExperienceNotSpecified
}

// extractItems runs a pattern family over the text and unions every
// captured tail, split on commas and semicolons, into one deduplicated set.
func extractItems(text string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]struct{})
	var items []string

	for _, pattern := range patterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			for _, raw := range itemSeparatorPattern.Split(m[1], -1) {
				item := strings.TrimSpace(raw)
				if len(item) <= 2 {
					continue
				}
				item = edgeNonWordPattern.ReplaceAllString(item, "")
				if len(item) <= 2 {
					continue
				}
				if _, dup := seen[item]; dup {
					continue
				}
				seen[item] = struct{}{}
				items = append(items, item)
			}
		}
	}

	return items
}
