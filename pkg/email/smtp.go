package email

import (
	"fmt"
	"net/smtp"

	"github.com/campusgig/server/internal/config"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// SendVerificationCode sends an email verification code.
func (s *EmailService) SendVerificationCode(toEmail, code string) error {
	subject := "[CampusGig] Email verification code"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2D6CDF;">Verify your email</h2>
        <p>Hi,</p>
        <p>Use this code to finish creating your CampusGig account.</p>
        <div style="background-color: #f4f4f4; padding: 20px; border-radius: 5px; text-align: center; margin: 20px 0;">
            <h1 style="color: #2D6CDF; font-size: 36px; margin: 0; letter-spacing: 5px;">%s</h1>
        </div>
        <p>The code is valid for <strong>10 minutes</strong>.</p>
        <p>If you didn't request this, you can safely ignore this email.</p>
    </div>
</body>
</html>
`, code)

	return s.sendEmail(toEmail, subject, body)
}

// sendEmail sends an HTML email over authenticated SMTP.
func (s *EmailService) sendEmail(to, subject, body string) error {
	if s.cfg.EmailHost == "" {
		return fmt.Errorf("email host not configured")
	}

	from := s.cfg.EmailHostUser
	displayFrom := from
	if s.cfg.DefaultFromEmail != "" {
		displayFrom = fmt.Sprintf("CampusGig <%s>", from)
	}

	auth := smtp.PlainAuth("", s.cfg.EmailHostUser, s.cfg.EmailHostPassword, s.cfg.EmailHost)

	headers := map[string]string{
		"From":         displayFrom,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	message := ""
	for k, v := range headers {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body

	addr := fmt.Sprintf("%s:%s", s.cfg.EmailHost, s.cfg.EmailPort)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(message))
}
