package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// EmailService defines the interface for sending emails
type EmailService interface {
	SendLoginCode(to, code, expiresAt string) error
	SendCorrectionRequest(to string, data CorrectionRequestEmail) error
	SendCorrectionResolved(to string, data CorrectionResolvedEmail) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		backoff:   time.Second,
	}, nil
}

type loginCodeEmailData struct {
	Code      string
	ExpiresAt string
}

// SendLoginCode sends the one-time dashboard login code
func (s *emailServiceImpl) SendLoginCode(to, code, expiresAt string) error {
	body, err := s.render("login_code.html", loginCodeEmailData{Code: code, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}
	return s.sendHTML(to, "Your login code", body)
}

// CorrectionRequestEmail carries the approve/reject links sent to the resolved partner
type CorrectionRequestEmail struct {
	EmployeeName    string
	Date            string
	RequestedStatus string
	Reason          string
	TimeRange       string
	ApproveLink     string
	RejectLink      string
}

func (s *emailServiceImpl) SendCorrectionRequest(to string, data CorrectionRequestEmail) error {
	body, err := s.render("correction_request.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(to, fmt.Sprintf("Attendance correction for %s on %s", data.EmployeeName, data.Date), body)
}

type CorrectionResolvedEmail struct {
	EmployeeName    string
	Date            string
	RequestedStatus string
	Status          string
	ResolvedBy      string
	RejectionReason string
}

func (s *emailServiceImpl) SendCorrectionResolved(to string, data CorrectionResolvedEmail) error {
	body, err := s.render("correction_resolved.html", data)
	if err != nil {
		return err
	}
	return s.sendHTML(to, fmt.Sprintf("Attendance correction %s: %s %s", data.Status, data.EmployeeName, data.Date), body)
}

func (s *emailServiceImpl) render(name string, data any) (string, error) {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return body.String(), nil
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	// Skip sending if SMTP is not configured
	if s.cfg.Host == "" {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return nil
	}

	from := s.cfg.From

	headers := fmt.Sprintf("From: %s <%s>\r\n", s.cfg.FromName, from)
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := smtp.SendMail(addr, auth, from, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// Wait before retrying (exponential backoff: 1s, 2s, 4s)
		if attempt < maxRetries {
			time.Sleep(s.backoff * time.Duration(1<<(attempt-1)))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
