package email

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailService_SkipsWhenSMTPNotConfigured(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)

	assert.NoError(t, svc.SendLoginCode("hr@example.com", "123456", "10:05"))
	assert.NoError(t, svc.SendCorrectionRequest("partner@example.com", CorrectionRequestEmail{
		EmployeeName:    "John Doe",
		Date:            "2026-01-12",
		RequestedStatus: "Present",
		Reason:          "Forgot to punch",
		ApproveLink:     "http://localhost/approve",
		RejectLink:      "http://localhost/reject",
	}))
}

func TestEmailService_RenderCorrectionRequest(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)

	body, err := impl.render("correction_request.html", CorrectionRequestEmail{
		EmployeeName:    "John Doe",
		Date:            "2026-01-12",
		RequestedStatus: "WFH",
		Reason:          "Worked from home",
		TimeRange:       "09:00 - 18:00",
		ApproveLink:     "http://localhost/api/v1/corrections/abc/approve?token=t1",
		RejectLink:      "http://localhost/api/v1/corrections/abc/reject?token=t1",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "John Doe")
	assert.Contains(t, body, "09:00 - 18:00")
	assert.Contains(t, body, "corrections/abc/approve?token=t1")
	assert.Contains(t, body, "corrections/abc/reject?token=t1")
}

func TestEmailService_RenderLoginCode(t *testing.T) {
	svc, err := NewEmailService(config.SMTPConfig{})
	require.NoError(t, err)
	impl := svc.(*emailServiceImpl)

	body, err := impl.render("login_code.html", loginCodeEmailData{Code: "481516", ExpiresAt: "10:05"})
	require.NoError(t, err)
	assert.Contains(t, body, "481516")
}
