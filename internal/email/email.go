package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/birozsombor4/rest-api-template/internal/domain"
	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogSender logs emails instead of sending them — used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.logger.Info("verification email (local dev)", "to", to, "subject", subject, "body", body)
	return nil
}

// ResendSender sends emails via the Resend API — used in staging/production.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for ENV=local, ResendSender otherwise.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger}
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

var verificationTemplate = template.Must(template.New("verification-email").Parse(`
<p>Hi {{.Username}},</p>
<p>Please verify your email address by clicking the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>
<p>The link expires in 24 hours.</p>
`))

// VerificationMailer renders and sends the account verification email.
type VerificationMailer struct {
	sender   Sender
	linkBase string
}

func NewVerificationMailer(sender Sender, linkBase string) *VerificationMailer {
	return &VerificationMailer{sender: sender, linkBase: linkBase}
}

// SendVerification emails the user a link carrying the verification token.
func (m *VerificationMailer) SendVerification(ctx context.Context, user *domain.User, token *domain.VerificationToken) error {
	var body bytes.Buffer
	err := verificationTemplate.Execute(&body, struct {
		Username string
		Link     string
	}{
		Username: user.Username,
		Link:     m.linkBase + "/verify?token=" + token.Token,
	})
	if err != nil {
		return fmt.Errorf("render verification email: %w", err)
	}
	return m.sender.Send(ctx, user.Email, "App Verification", body.String())
}
