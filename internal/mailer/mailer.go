package mailer

import (
	"context"
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"taskboard/internal/config"
)

// Mailer delivers account e-mails.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, username, token string) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg    config.MailConfig
	dialer sender
	logger logrus.FieldLogger
}

func NewSMTPMailer(cfg config.MailConfig, logger logrus.FieldLogger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logger: logger,
	}
}

// ResetLink builds the front-end link carried by the reset e-mail.
func ResetLink(origin, token, email string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	return strings.TrimRight(origin, "/") + "/user/reset-password?" + q.Encode()
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	if m.cfg.Host == "" {
		m.logger.Warn("mail host not configured, skip reset password email")
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := m.buildResetMessage(to, username, token)
	if err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.WithField("to", to).Info("reset password email sent")
	return nil
}

var resetTemplate = template.Must(template.New("reset").Parse(`<h4>Hello, {{.Username}}</h4>
<p>Please reset password by clicking on the following link:
<a href="{{.Link}}">Reset Password</a></p>`))

// resetBody renders the reset e-mail HTML with username and link escaped.
func resetBody(username, link string) (string, error) {
	var buf bytes.Buffer
	err := resetTemplate.Execute(&buf, struct{ Username, Link string }{username, link})
	if err != nil {
		return "", fmt.Errorf("render reset email: %w", err)
	}
	return buf.String(), nil
}

func (m *SMTPMailer) buildResetMessage(to, username, token string) (*gomail.Message, error) {
	body, err := resetBody(username, ResetLink(m.cfg.Origin, token, to))
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset Password")
	msg.SetBody("text/html", body)
	return msg, nil
}

var _ Mailer = (*SMTPMailer)(nil)
