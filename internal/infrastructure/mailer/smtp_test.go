package mailer

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
	"github.com/awaisdevofficial/inbound2-sub001/pkg/constants"
)

const cramChallenge = "<1896.697170952@localhost>"

// fakeSMTP is a minimal plaintext ESMTP server that offers CRAM-MD5 only
// and keeps every accepted DATA payload.
type fakeSMTP struct {
	ln   net.Listener
	user string
	pass string

	mu       sync.Mutex
	messages []string
}

func newFakeSMTP(t *testing.T, user, pass string) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSMTP{ln: ln, user: user, pass: pass}
	t.Cleanup(func() { _ = ln.Close() })
	go s.serve()
	return s
}

func (s *fakeSMTP) port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeSMTP) received() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.messages...)
}

func (s *fakeSMTP) serve() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.handle(conn)
	}
}

func (s *fakeSMTP) handle(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP ready")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			_ = tp.PrintfLine("500 5.5.2 Syntax error")
			continue
		}

		switch strings.ToUpper(fields[0]) {
		case "EHLO", "HELO":
			_ = tp.PrintfLine("250-localhost")
			_ = tp.PrintfLine("250 AUTH CRAM-MD5")
		case "AUTH":
			s.authenticate(tp)
		case "MAIL", "RCPT", "RSET", "NOOP":
			_ = tp.PrintfLine("250 2.0.0 OK")
		case "DATA":
			_ = tp.PrintfLine("354 End data with <CR><LF>.<CR><LF>")
			body, err := tp.ReadDotBytes()
			if err != nil {
				return
			}
			s.mu.Lock()
			s.messages = append(s.messages, string(body))
			s.mu.Unlock()
			_ = tp.PrintfLine("250 2.0.0 OK queued")
		case "QUIT":
			_ = tp.PrintfLine("221 2.0.0 Bye")
			return
		default:
			_ = tp.PrintfLine("502 5.5.1 Command not implemented")
		}
	}
}

func (s *fakeSMTP) authenticate(tp *textproto.Conn) {
	_ = tp.PrintfLine("334 %s", base64.StdEncoding.EncodeToString([]byte(cramChallenge)))
	line, err := tp.ReadLine()
	if err != nil {
		return
	}

	mac := hmac.New(md5.New, []byte(s.pass))
	mac.Write([]byte(cramChallenge))
	want := fmt.Sprintf("%s %x", s.user, mac.Sum(nil))

	got, err := base64.StdEncoding.DecodeString(line)
	if err != nil || string(got) != want {
		_ = tp.PrintfLine("535 5.7.8 Authentication credentials invalid")
		return
	}
	_ = tp.PrintfLine("235 2.7.0 Authentication successful")
}

func plaintextMailer() *SMTPMailer {
	m := New(5*time.Second, zap.NewNop())
	m.tlsPolicy = mail.NoTLS
	return m
}

func deliveryClass(t *testing.T, err error) string {
	t.Helper()
	var de *models.DeliveryError
	require.True(t, errors.As(err, &de), "expected DeliveryError, got %v", err)
	return de.Class
}

func TestSMTPMailer_Verify(t *testing.T) {
	server := newFakeSMTP(t, "owner@example.com", "s3cret")
	m := plaintextMailer()

	t.Run("accepted credentials", func(t *testing.T) {
		err := m.Verify(context.Background(), models.SMTPSettings{
			Host: "127.0.0.1", Port: server.port(), Username: "owner@example.com", Password: "s3cret",
		})
		assert.NoError(t, err)
	})

	t.Run("rejected credentials", func(t *testing.T) {
		err := m.Verify(context.Background(), models.SMTPSettings{
			Host: "127.0.0.1", Port: server.port(), Username: "owner@example.com", Password: "wrong",
		})
		require.Error(t, err)
		assert.Equal(t, constants.SMTPErrAuth, deliveryClass(t, err))
	})

	t.Run("nothing listening", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		port := ln.Addr().(*net.TCPAddr).Port
		require.NoError(t, ln.Close())

		err = m.Verify(context.Background(), models.SMTPSettings{
			Host: "127.0.0.1", Port: port, Username: "owner@example.com", Password: "s3cret",
		})
		require.Error(t, err)
		assert.Equal(t, constants.SMTPErrConnection, deliveryClass(t, err))
	})
}

func TestSMTPMailer_Send(t *testing.T) {
	server := newFakeSMTP(t, "owner@example.com", "s3cret")
	m := plaintextMailer()
	settings := models.SMTPSettings{
		Host: "127.0.0.1", Port: server.port(), Username: "owner@example.com", Password: "s3cret",
	}

	id, err := m.Send(context.Background(), settings, &models.EmailMessage{
		From:    "owner@example.com",
		To:      []string{"lead@example.com"},
		Subject: "Quarterly review",
		Text:    "See you Thursday.",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs := server.received()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Subject: Quarterly review")
	assert.Contains(t, msgs[0], "lead@example.com")
	assert.Contains(t, msgs[0], "See you Thursday.")

	t.Run("rejected credentials", func(t *testing.T) {
		bad := settings
		bad.Password = "wrong"
		_, err := m.Send(context.Background(), bad, &models.EmailMessage{
			From: "owner@example.com", To: []string{"lead@example.com"}, Subject: "x", Text: "y",
		})
		require.Error(t, err)
		assert.Equal(t, constants.SMTPErrAuth, deliveryClass(t, err))
		assert.Len(t, server.received(), 1)
	})
}
