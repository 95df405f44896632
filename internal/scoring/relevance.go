package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"applicon/resume-evaluator/internal/parser"
)

// Verdict tiers for the final 0-100 relevance score. Lower bounds are
// inclusive.
const (
	VerdictHigh   = "High"
	VerdictMedium = "Medium"
	VerdictLow    = "Low"
)

// Component weights. They must sum to 1.0.
const (
	weightMustHave       = 0.40
	weightGoodToHave     = 0.20
	weightQualifications = 0.15
	weightExperience     = 0.15
	weightKeywords       = 0.10
)

// RelevanceResult is the output of one weighted scoring pass.
type RelevanceResult struct {
	RelevanceScore  float64             `json:"relevance_score"`
	Verdict         string              `json:"verdict"`
	MissingElements map[string][]string `json:"missing_elements"`
	Feedback        string              `json:"feedback"`
}

var digitsPattern = regexp.MustCompile(`\d+`)

// RelevanceScorer combines a candidate's extracted keywords and sections
// with a job's structured requirements into a single weighted score.
type RelevanceScorer struct{}

func NewRelevanceScorer() *RelevanceScorer {
	return &RelevanceScorer{}
}

func (s *RelevanceScorer) Score(resume *parser.ParsedResume, reqs *parser.JobRequirements) *RelevanceResult {
	mustHaveScore, missingMustHaves := scoreSkills(resume.Keywords, reqs.MustHaveSkills)
	goodToHaveScore, missingGoodToHaves := scoreSkills(resume.Keywords, reqs.GoodToHaveSkills)
	qualificationScore, missingQualifications := scoreQualifications(resume.Sections["education"], reqs.Qualifications)
	experienceScore := scoreExperience(resume.Sections["experience"], reqs.Experience)
	keywordScore := scoreKeywords(resume.Keywords, reqs.Keywords)

	weighted := (mustHaveScore*weightMustHave +
		goodToHaveScore*weightGoodToHave +
		qualificationScore*weightQualifications +
		experienceScore*weightExperience +
		keywordScore*weightKeywords) * 100

	score := math.Round(weighted*100) / 100

	return &RelevanceResult{
		RelevanceScore: score,
		Verdict:        VerdictFor(score),
		MissingElements: map[string][]string{
			"must_have_skills":    missingMustHaves,
			"good_to_have_skills": missingGoodToHaves,
			"qualifications":      missingQualifications,
		},
		Feedback: buildFeedback(missingMustHaves, missingGoodToHaves, missingQualifications, reqs.Experience),
	}
}

// VerdictFor maps a 0-100 score onto the three suitability tiers.
func VerdictFor(score float64) string {
	switch {
	case score >= 80:
		return VerdictHigh
	case score >= 60:
		return VerdictMedium
	default:
		return VerdictLow
	}
}

// scoreSkills returns the matched fraction of required skills and the items
// that did not match. An empty requirement set is vacuously satisfied.
func scoreSkills(resumeKeywords, requiredSkills []string) (float64, []string) {
	missing := []string{}
	if len(requiredSkills) == 0 {
		return 1.0, missing
	}

	matched := 0
	for _, skill := range requiredSkills {
		if fuzzyMatch(strings.ToLower(skill), resumeKeywords) {
			matched++
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(matched) / float64(len(requiredSkills)), missing
}

// scoreQualifications uses plain substring containment against the resume's
// education section, not fuzzy matching: qualification phrases are too long
// for an edit-distance ratio to behave sensibly.
func scoreQualifications(educationSection string, qualifications []string) (float64, []string) {
	missing := []string{}
	if len(qualifications) == 0 {
		return 1.0, missing
	}

	education := strings.ToLower(educationSection)
	matched := 0
	for _, qual := range qualifications {
		if strings.Contains(education, strings.ToLower(qual)) {
			matched++
		} else {
			missing = append(missing, qual)
		}
	}

	return float64(matched) / float64(len(qualifications)), missing
}

// scoreExperience compares the first integer of the requirement phrase with
// the first integer found in the resume's experience section. The step
// function bottoms out at 0.25 no matter how large the shortfall.
func scoreExperience(experienceSection, requiredExperience string) float64 {
	if requiredExperience == "" || requiredExperience == parser.ExperienceNotSpecified {
		return 1.0
	}

	requiredYears, ok := extractYears(requiredExperience)
	if !ok {
		// Unparseable requirement, no penalty
		return 1.0
	}

	candidateYears, ok := extractYears(experienceSection)
	if !ok {
		return 0.0
	}

	switch {
	case candidateYears >= requiredYears:
		return 1.0
	case float64(candidateYears) >= float64(requiredYears)*0.75:
		return 0.75
	case float64(candidateYears) >= float64(requiredYears)*0.5:
		return 0.5
	default:
		return 0.25
	}
}

func scoreKeywords(resumeKeywords, jdKeywords []string) float64 {
	if len(jdKeywords) == 0 {
		return 1.0
	}

	matched := 0
	for _, keyword := range jdKeywords {
		if fuzzyMatch(strings.ToLower(keyword), resumeKeywords) {
			matched++
		}
	}

	return float64(matched) / float64(len(jdKeywords))
}

func extractYears(text string) (int, bool) {
	match := digitsPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	years, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return years, true
}

func buildFeedback(missingMustHaves, missingGoodToHaves, missingQualifications []string, requiredExperience string) string {
	var parts []string

	if len(missingMustHaves) > 0 {
		parts = append(parts, fmt.Sprintf("Missing required skills: %s", strings.Join(firstN(missingMustHaves, 5), ", ")))
	}

	if len(missingQualifications) > 0 {
		parts = append(parts, fmt.Sprintf("Missing qualifications: %s", strings.Join(missingQualifications, ", ")))
	}

	if requiredExperience != "" && requiredExperience != parser.ExperienceNotSpecified {
		parts = append(parts, fmt.Sprintf("Experience requirement: %s", requiredExperience))
	}

	if len(missingGoodToHaves) > 0 {
		parts = append(parts, fmt.Sprintf("Consider adding these preferred skills: %s", strings.Join(firstN(missingGoodToHaves, 3), ", ")))
	}

	if len(parts) == 0 {
		return "Your resume matches well with the job requirements. Well done!"
	}

	return "To improve your chances: " + strings.Join(parts, "; ")
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
