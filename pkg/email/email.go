package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/logger"
	"strconv"
	"strings"
	"text/template"
	"time"

	"go.uber.org/zap"
)

const (
	// PortImplicitTLS is SMTPS: TLS from the first byte.
	PortImplicitTLS = 465
	// PortStartTLS is submission: plaintext greeting upgraded with STARTTLS.
	PortStartTLS = 587

	senderName  = "Portfolio"
	sendTimeout = 30 * time.Second
	noSubject   = "No subject"
)

var (
	ErrMisconfigured    = errors.New("email service misconfigured")
	ErrUnsupportedPort  = errors.New("SMTP_PORT must be 465 (SSL) or 587 (STARTTLS)")
	ErrAuth             = errors.New("smtp authentication failed")
	ErrInvalidRecipient = errors.New("missing or invalid recipient email address")
)

// EmailService sends the contact form emails over SMTP. Every send opens its
// own connection; nothing is pooled.
type EmailService struct {
	host       string
	port       int
	sender     string
	password   string
	adminEmail string

	addr      string
	timeout   time.Duration
	tlsConfig *tls.Config
	now       func() time.Time
}

// NewEmailService validates the SMTP settings up front so a bad configuration
// stops the process at startup instead of dropping mail later.
func NewEmailService(cfg *config.Config) (*EmailService, error) {
	host := strings.TrimSpace(cfg.SMTPServer)
	sender := strings.TrimSpace(cfg.SenderEmail)
	password := strings.TrimSpace(cfg.SenderPassword)
	admin := strings.TrimSpace(cfg.AdminEmail)
	if admin == "" {
		admin = sender
	}

	var missing []string
	if host == "" {
		missing = append(missing, "SMTP_SERVER")
	}
	if cfg.SMTPPort == 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if sender == "" {
		missing = append(missing, "SENDER_EMAIL")
	}
	if password == "" {
		missing = append(missing, "SENDER_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w. Missing env(s): %s", ErrMisconfigured, strings.Join(missing, ", "))
	}

	if cfg.SMTPPort != PortImplicitTLS && cfg.SMTPPort != PortStartTLS {
		return nil, ErrUnsupportedPort
	}

	return &EmailService{
		host:       host,
		port:       cfg.SMTPPort,
		sender:     sender,
		password:   password,
		adminEmail: admin,
		addr:       net.JoinHostPort(host, strconv.Itoa(cfg.SMTPPort)),
		timeout:    sendTimeout,
		tlsConfig:  &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		now:        time.Now,
	}, nil
}

// AdminEmail is the recipient of submission notifications.
func (s *EmailService) AdminEmail() string {
	return s.adminEmail
}

var (
	notificationTemplate = template.Must(template.New("notification").Parse(`New contact form submission:

Name:    {{.Name}}
Email:   {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}`))

	autoReplyTemplate = template.Must(template.New("auto_reply").Parse(`Hi {{.Name}},

Thanks for reaching out. I received your message and will get back to you soon.

Your message:
{{.Message}}

— Portfolio`))
)

type templateData struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func newTemplateData(c *domain.Contact) templateData {
	subject := noSubject
	if c.Subject != nil && strings.TrimSpace(*c.Subject) != "" {
		subject = *c.Subject
	}
	return templateData{
		Name:    c.Name,
		Email:   c.Email,
		Subject: subject,
		Message: c.Message,
	}
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return body.String(), nil
}

// SendContactNotification tells the admin about a new submission.
func (s *EmailService) SendContactNotification(ctx context.Context, contact *domain.Contact) bool {
	log := logger.FromContext(ctx).With(zap.String("email_kind", "notification"))

	body, err := render(notificationTemplate, newTemplateData(contact))
	if err == nil {
		err = s.send(ctx, s.adminEmail, contact.Email, "New Contact: "+contact.Name, body)
	}
	if err != nil {
		logFailure(log, s.adminEmail, err)
		return false
	}

	log.Info("Notification sent", zap.String("to", s.adminEmail))
	return true
}

// SendAutoReply acknowledges the submission to the submitter.
func (s *EmailService) SendAutoReply(ctx context.Context, contact *domain.Contact) bool {
	log := logger.FromContext(ctx).With(zap.String("email_kind", "auto_reply"))

	body, err := render(autoReplyTemplate, newTemplateData(contact))
	if err == nil {
		err = s.send(ctx, contact.Email, "", "Thanks for contacting me", body)
	}
	if err != nil {
		logFailure(log, contact.Email, err)
		return false
	}

	log.Info("Auto-reply sent", zap.String("to", contact.Email))
	return true
}

func logFailure(log *zap.Logger, to string, err error) {
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrInvalidRecipient) {
		log.Warn("Email auth or validation failed", zap.String("to", to), zap.Error(err))
		return
	}
	log.Error("Email send error", zap.String("to", to), zap.Error(err))
}

// send performs one complete SMTP session. The connection is closed on
// every return path.
func (s *EmailService) send(ctx context.Context, to, replyTo, subject, body string) error {
	rcpt, err := mail.ParseAddress(strings.TrimSpace(to))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	msg := buildMessage(s.sender, rcpt.Address, replyTo, subject, body, s.now())

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Auth(smtp.PlainAuth("", s.sender, s.password, s.host)); err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	if err := client.Mail(s.sender); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}
	if err := client.Rcpt(rcpt.Address); err != nil {
		return fmt.Errorf("RCPT TO: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	return client.Quit()
}

// dial connects and secures the session: TLS from the start on 465,
// a mandatory STARTTLS upgrade on 587.
func (s *EmailService) dial(ctx context.Context) (*smtp.Client, error) {
	dialer := &net.Dialer{Timeout: s.timeout}

	var (
		conn net.Conn
		err  error
	)
	if s.port == PortImplicitTLS {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: s.tlsConfig}).DialContext(ctx, "tcp", s.addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", s.addr)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", s.addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(s.timeout))

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("smtp greeting: %w", err)
	}

	if s.port == PortStartTLS {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			client.Close()
			return nil, errors.New("server does not support STARTTLS")
		}
		if err := client.StartTLS(s.tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("STARTTLS: %w", err)
		}
	}
	return client, nil
}

// buildMessage renders an RFC 5322 plain-text message with CRLF line endings.
func buildMessage(from, to, replyTo, subject, body string, date time.Time) []byte {
	var b strings.Builder
	fromAddr := mail.Address{Name: senderName, Address: from}

	b.WriteString("From: " + fromAddr.String() + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	if replyTo != "" {
		b.WriteString("Reply-To: " + replyTo + "\r\n")
	}
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("Date: " + date.Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	b.WriteString("\r\n")

	return []byte(b.String())
}
