package parser

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultResumeTitle is the sentinel used when no job title can be inferred
// from a resume.
const DefaultResumeTitle = "General Applicant"

// SectionNames lists the named resume sections, in extraction order. Every
// ParsedResume carries all of them; unmatched sections map to "".
var SectionNames = []string{
	"contact", "summary", "experience", "education",
	"skills", "projects", "certifications",
}

// ParsedResume holds the atomic facts and named sections pulled out of one
// resume. Created once per parse call and not mutated afterwards.
type ParsedResume struct {
	Text     string
	Sections map[string]string
	Keywords []string
	Email    string
	Phone    string
	JobTitle string
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// International numbers must carry a leading +. Without it the pattern
	// would eat into parenthesized NANP numbers and surface "555) 123-4567"
	// instead of the full match below.
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
		regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	}

	experienceBlockPattern = regexp.MustCompile(`(?is)\b(?:experience|work history|employment)\b(.*?)(?:\n[ \t]*\n|\z)`)

	experienceTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s*\|`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+at\b`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),`),
	}

	sectionPatterns = map[string]*regexp.Regexp{
		"contact":        sectionPattern(`contact|address|phone|email|linkedin`),
		"summary":        sectionPattern(`summary|objective|profile`),
		"experience":     sectionPattern(`experience|work history|employment`),
		"education":      sectionPattern(`education|academic`),
		"skills":         sectionPattern(`skills|technical skills|expertise`),
		"projects":       sectionPattern(`projects|personal projects`),
		"certifications": sectionPattern(`certifications|certificates`),
	}

	spacePattern    = regexp.MustCompile(`[ \t]+`)
	newlinesPattern = regexp.MustCompile(`\n{3,}`)

	titleNoiseWords = []string{"email", "phone", "linkedin", "address"}
)

// sectionPattern builds a header-anchored matcher: the header keyword, an
// optional separator, then everything up to the next blank line or the end
// of the text. The first match wins.
func sectionPattern(headers string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)\b(?:` + headers + `)\b[:\s]*?(\S.*?)(?:\n[ \t]*\n|\z)`)
}

// ResumeParser extracts structured fields from resume text. It never fails
// on sparse or malformed input; unresolvable fields degrade to empty strings
// or sentinel defaults.
type ResumeParser struct {
	docParser DocumentParser
}

func NewResumeParser(docParser DocumentParser) *ResumeParser {
	return &ResumeParser{docParser: docParser}
}

// Parse extracts text from a PDF or DOCX file and parses it. The only error
// it can surface is a document extraction failure; everything downstream is
// tolerant.
func (p *ResumeParser) Parse(filePath string) (*ParsedResume, error) {
	text, err := p.docParser.ExtractText(filePath)
	if err != nil {
		return nil, err
	}
	return p.ParseText(CleanText(text)), nil
}

// ParseText parses raw resume text. Deterministic: identical input always
// yields an identical ParsedResume.
func (p *ResumeParser) ParseText(text string) *ParsedResume {
	return &ParsedResume{
		Text:     text,
		Sections: p.extractSections(text),
		Keywords: extractKeywords(text, resumeStopWords),
		Email:    p.extractEmail(text),
		Phone:    p.extractPhone(text),
		JobTitle: p.extractJobTitle(text),
	}
}

func (p *ResumeParser) extractEmail(text string) string {
	return emailPattern.FindString(text)
}

func (p *ResumeParser) extractPhone(text string) string {
	for _, pattern := range phonePatterns {
		if match := pattern.FindString(text); match != "" {
			return match
		}
	}
	return ""
}

func (p *ResumeParser) extractJobTitle(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
		if len(lines) == 5 {
			break
		}
	}

	for i, line := range lines {
		// The very first line is usually the candidate's name
		if i == 0 && strings.Count(line, " ") < 3 {
			continue
		}
		if len(line) > 3 && len(line) < 50 && isTitleCase(line) && !containsAny(line, titleNoiseWords) {
			return line
		}
	}

	// No obvious headline, look for "Title |", "Title at" or "Title," inside
	// the experience block.
	if block := experienceBlockPattern.FindString(text); block != "" {
		for _, pattern := range experienceTitlePatterns {
			if m := pattern.FindStringSubmatch(block); m != nil {
				return m[1]
			}
		}
	}

	return DefaultResumeTitle
}

func (p *ResumeParser) extractSections(text string) map[string]string {
	normalized := normalizeWhitespace(text)

	sections := make(map[string]string, len(SectionNames))
	for _, name := range SectionNames {
		sections[name] = ""
		if match := sectionPatterns[name].FindString(normalized); match != "" {
			sections[name] = strings.TrimSpace(match)
		}
	}
	return sections
}

// normalizeWhitespace collapses horizontal whitespace and squeezes newline
// runs down to the blank-line separators the section patterns anchor on.
func normalizeWhitespace(text string) string {
	text = spacePattern.ReplaceAllString(text, " ")
	text = newlinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// isTitleCase reports whether every cased word starts with an uppercase
// letter followed by no further uppercase, the shape of a headline such as
// "Senior Data Analyst".
func isTitleCase(s string) bool {
	hasLetter := false
	for _, word := range strings.Fields(s) {
		first := true
		for _, r := range word {
			if !unicode.IsLetter(r) {
				continue
			}
			hasLetter = true
			if first {
				if !unicode.IsUpper(r) {
					return false
				}
				first = false
			} else if unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func containsAny(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, word := range words {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
