package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"regexp"
	"strings"
	texttemplate "text/template"

	"applicon/resume-evaluator/internal/config"
	"applicon/resume-evaluator/internal/models"
)

// EmailService sends formatted evaluation feedback to candidates. Delivery
// problems surface as a false return, never as a panic or error that could
// abort a batch.
type EmailService interface {
	SendFeedback(eval *models.Evaluation) bool
	IsConfigured() bool
}

var recipientPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type emailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) EmailService {
	return &emailService{cfg: cfg}
}

// IsConfigured implements EmailService.
func (s *emailService) IsConfigured() bool {
	return s.cfg.SenderEmail != "" && s.cfg.SenderPassword != ""
}

// SendFeedback implements EmailService. The recipient address shape is
// validated before any connection is attempted.
func (s *emailService) SendFeedback(eval *models.Evaluation) bool {
	if !s.IsConfigured() {
		log.Println("⚠️  Email service not configured, skipping feedback email")
		return false
	}

	recipient := strings.TrimSpace(eval.CandidateEmail)
	if recipient == "" {
		log.Printf("⚠️  No email address found for evaluation %s\n", eval.ID)
		return false
	}
	if !recipientPattern.MatchString(recipient) {
		log.Printf("⚠️  Invalid email format: %s\n", recipient)
		return false
	}

	message, err := s.buildMessage(recipient, eval)
	if err != nil {
		log.Printf("❌ Failed to render feedback email: %v\n", err)
		return false
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.SenderEmail, s.cfg.SenderPassword, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.SenderEmail, []string{recipient}, message); err != nil {
		log.Printf("❌ Failed to send email to %s: %v\n", recipient, err)
		return false
	}

	log.Printf("✅ Feedback email sent to %s\n", recipient)
	return true
}

type feedbackEmailData struct {
	JobTitle         string
	RelevanceScore   float64
	Verdict          string
	Feedback         string
	ImprovedFeedback string
	SenderName       string
}

var feedbackTextTemplate = texttemplate.Must(texttemplate.New("feedback").Parse(
	`Resume Evaluation Feedback - {{.JobTitle}}

Relevance score: {{printf "%.2f" .RelevanceScore}}/100 ({{.Verdict}})

{{.Feedback}}

{{if .ImprovedFeedback}}{{.ImprovedFeedback}}

{{end}}Best regards,
{{.SenderName}}
`))

var feedbackHTMLTemplate = template.Must(template.New("feedback").Parse(
	`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2>Resume Evaluation Feedback - {{.JobTitle}}</h2>
    <p><strong>Relevance score:</strong> {{printf "%.2f" .RelevanceScore}}/100 ({{.Verdict}})</p>
    <p>{{.Feedback}}</p>
    {{if .ImprovedFeedback}}<p>{{.ImprovedFeedback}}</p>{{end}}
    <p>Best regards,<br>{{.SenderName}}</p>
  </div>
</body>
</html>
`))

// buildMessage renders a multipart/alternative body with a plain-text part
// and an HTML part.
func (s *emailService) buildMessage(recipient string, eval *models.Evaluation) ([]byte, error) {
	data := feedbackEmailData{
		JobTitle:         eval.JobTitle,
		RelevanceScore:   eval.RelevanceScore,
		Verdict:          eval.Verdict,
		Feedback:         eval.Feedback,
		ImprovedFeedback: eval.ImprovedFeedback,
		SenderName:       s.cfg.SenderName,
	}

	var textBody bytes.Buffer
	if err := feedbackTextTemplate.Execute(&textBody, data); err != nil {
		return nil, fmt.Errorf("failed to render text body: %w", err)
	}

	var htmlBody bytes.Buffer
	if err := feedbackHTMLTemplate.Execute(&htmlBody, data); err != nil {
		return nil, fmt.Errorf("failed to render html body: %w", err)
	}

	const boundary = "applicon-feedback-boundary"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.SenderName, s.cfg.SenderEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: Resume Evaluation Feedback - %s\r\n", eval.JobTitle)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.Write(textBody.Bytes())
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.Write(htmlBody.Bytes())
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.Bytes(), nil
}
