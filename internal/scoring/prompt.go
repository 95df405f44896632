package scoring

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFeedbackPrompt creates the prompt for generative feedback. Inputs are
// expected pre-truncated.
func (pb *PromptBuilder) BuildFeedbackPrompt(jdText, resumeText string) string {
	return fmt.Sprintf(`As a resume expert, analyze the following resume against the job description.
Provide specific, actionable feedback to improve the candidate's chances.

Job Description:
%s

Resume:
%s

Please provide:
1. A brief summary of the match quality (1-2 sentences)
2. Three specific suggestions for improvement
3. Any sections that are particularly strong`, jdText, resumeText)
}
