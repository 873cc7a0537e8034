package email

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-contact-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smtpSession records what one client connection did.
type smtpSession struct {
	upgraded bool
	auth     string
	from     string
	rcpt     []string
	data     string
	quit     bool
	closed   bool
}

// fakeSMTP is a minimal SMTP server that speaks either implicit TLS or
// plaintext with a STARTTLS upgrade.
type fakeSMTP struct {
	ln         net.Listener
	serverTLS  *tls.Config
	clientTLS  *tls.Config
	implicit   bool
	noStartTLS bool
	authReply  string
	sessions   chan *smtpSession
}

func newFakeSMTP(t *testing.T, implicit bool) *fakeSMTP {
	t.Helper()

	ts := httptest.NewUnstartedServer(http.NotFoundHandler())
	ts.StartTLS()
	t.Cleanup(ts.Close)

	pool := x509.NewCertPool()
	pool.AddCert(ts.Certificate())

	f := &fakeSMTP{
		serverTLS: &tls.Config{Certificates: ts.TLS.Certificates},
		clientTLS: &tls.Config{RootCAs: pool, ServerName: "example.com", MinVersion: tls.VersionTLS12},
		implicit:  implicit,
		authReply: "235 2.7.0 Authentication successful",
		sessions:  make(chan *smtpSession, 4),
	}

	var err error
	if implicit {
		f.ln, err = tls.Listen("tcp", "127.0.0.1:0", f.serverTLS)
	} else {
		f.ln, err = net.Listen("tcp", "127.0.0.1:0")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.ln.Close() })

	go func() {
		for {
			conn, err := f.ln.Accept()
			if err != nil {
				return
			}
			go func() { f.sessions <- f.serve(conn) }()
		}
	}()
	return f
}

func (f *fakeSMTP) serve(conn net.Conn) *smtpSession {
	s := &smtpSession{}
	defer func() { _ = conn.Close() }()

	r := bufio.NewReader(conn)
	reply := func(line string) { _, _ = fmt.Fprintf(conn, "%s\r\n", line) }

	reply("220 fake ESMTP ready")
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			s.closed = true
			return s
		}
		line = strings.TrimRight(line, "\r\n")
		verb := strings.ToUpper(strings.SplitN(line, " ", 2)[0])

		switch verb {
		case "EHLO":
			reply("250-fake.example.com")
			if !f.implicit && !s.upgraded && !f.noStartTLS {
				reply("250-STARTTLS")
			}
			reply("250 AUTH PLAIN")
		case "STARTTLS":
			reply("220 Ready to start TLS")
			tconn := tls.Server(conn, f.serverTLS)
			if err := tconn.Handshake(); err != nil {
				return s
			}
			conn = tconn
			r = bufio.NewReader(conn)
			s.upgraded = true
		case "AUTH":
			s.auth = line
			reply(f.authReply)
		case "*":
			reply("501 Authentication cancelled")
		case "MAIL":
			s.from = line
			reply("250 OK")
		case "RCPT":
			s.rcpt = append(s.rcpt, line)
			reply("250 OK")
		case "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var b strings.Builder
			for {
				l, err := r.ReadString('\n')
				if err != nil {
					s.closed = true
					return s
				}
				if l == ".\r\n" {
					break
				}
				if strings.HasPrefix(l, "..") {
					l = l[1:]
				}
				b.WriteString(l)
			}
			s.data = b.String()
			reply("250 OK queued")
		case "QUIT":
			s.quit = true
			reply("221 Bye")
		default:
			reply("502 Command not implemented")
		}
	}
}

func (f *fakeSMTP) session(t *testing.T) *smtpSession {
	t.Helper()
	select {
	case s := <-f.sessions:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("SMTP session did not finish")
		return nil
	}
}

func newSessionService(t *testing.T, f *fakeSMTP, port int) *EmailService {
	t.Helper()
	cfg := validConfig()
	cfg.SMTPPort = port
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	svc.addr = f.ln.Addr().String()
	svc.timeout = 5 * time.Second
	svc.tlsConfig = f.clientTLS
	return svc
}

func decodePlainAuth(t *testing.T, line string) string {
	t.Helper()
	fields := strings.Fields(line)
	require.Len(t, fields, 3, line)
	assert.Equal(t, "PLAIN", fields[1])
	raw, err := base64.StdEncoding.DecodeString(fields[2])
	require.NoError(t, err)
	return string(raw)
}

func TestSend_DeliversOverSecurePorts(t *testing.T) {
	contact := &domain.Contact{Name: "Ada", Email: "ada@example.com", Message: "hi there"}

	for _, tc := range []struct {
		name     string
		port     int
		implicit bool
	}{
		{"implicit TLS", PortImplicitTLS, true},
		{"STARTTLS", PortStartTLS, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeSMTP(t, tc.implicit)
			svc := newSessionService(t, f, tc.port)

			ok := svc.SendContactNotification(context.Background(), contact)
			assert.True(t, ok)

			s := f.session(t)
			assert.Equal(t, !tc.implicit, s.upgraded)
			assert.Equal(t, "\x00me@example.com\x00secret", decodePlainAuth(t, s.auth))
			assert.Contains(t, s.from, "<me@example.com>")
			require.Len(t, s.rcpt, 1)
			assert.Contains(t, s.rcpt[0], "<me@example.com>")

			assert.Contains(t, s.data, "From: \"Portfolio\" <me@example.com>\r\n")
			assert.Contains(t, s.data, "To: me@example.com\r\n")
			assert.Contains(t, s.data, "Reply-To: ada@example.com\r\n")
			assert.Contains(t, s.data, "Subject: New Contact: Ada\r\n")
			assert.Contains(t, s.data, "Name:    Ada\r\n")
			assert.Contains(t, s.data, "hi there")

			assert.True(t, s.quit)
			assert.True(t, s.closed)
		})
	}

	t.Run("auto-reply goes to the submitter", func(t *testing.T) {
		f := newFakeSMTP(t, false)
		svc := newSessionService(t, f, PortStartTLS)

		assert.True(t, svc.SendAutoReply(context.Background(), contact))

		s := f.session(t)
		require.Len(t, s.rcpt, 1)
		assert.Contains(t, s.rcpt[0], "<ada@example.com>")
		assert.Contains(t, s.data, "Subject: Thanks for contacting me\r\n")
		assert.NotContains(t, s.data, "Reply-To")
	})
}

func TestSend_AuthRejected(t *testing.T) {
	f := newFakeSMTP(t, true)
	f.authReply = "535 5.7.8 Authentication credentials invalid"
	svc := newSessionService(t, f, PortImplicitTLS)

	contact := &domain.Contact{Name: "Ada", Email: "ada@example.com", Message: "hi"}
	err := svc.send(context.Background(), "ada@example.com", "", "s", "b")
	assert.ErrorIs(t, err, ErrAuth)
	s := f.session(t)
	assert.Empty(t, s.from)
	assert.Empty(t, s.data)
	assert.True(t, s.closed)

	assert.False(t, svc.SendAutoReply(context.Background(), contact))
	s = f.session(t)
	assert.NotEmpty(t, s.auth)
	assert.Empty(t, s.data)
	assert.True(t, s.closed)
}

func TestSend_StartTLSRequired(t *testing.T) {
	f := newFakeSMTP(t, false)
	f.noStartTLS = true
	svc := newSessionService(t, f, PortStartTLS)

	contact := &domain.Contact{Name: "Ada", Email: "ada@example.com", Message: "hi"}
	assert.False(t, svc.SendContactNotification(context.Background(), contact))

	s := f.session(t)
	assert.False(t, s.upgraded)
	assert.Empty(t, s.auth, "credentials must never cross a plaintext session")
	assert.True(t, s.closed)
}

func TestBuildMessage_EncodesControlCharactersInSubject(t *testing.T) {
	date := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	msg := string(buildMessage("me@example.com", "ada@example.com", "", "New Contact: Jane\r\nBcc: x@example.com", "b", date))

	assert.NotContains(t, msg, "\r\nBcc:")
	assert.Contains(t, msg, "Subject: =?utf-8?q?")
}
