package notify

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func renderHeaders(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	headers, _, found := strings.Cut(buf.String(), "\r\n\r\n")
	require.True(t, found)
	return headers
}

func TestBuildMessage_SubjectCannotInjectHeaders(t *testing.T) {
	m := buildMessage("noreply@example.com", Email{
		To:       "member@example.com",
		Subject:  "[Site] hi\r\nBcc: attacker@evil.test",
		TextBody: "hello",
	})

	headers := renderHeaders(t, m)
	assert.NotContains(t, headers, "\r\nBcc:")
	assert.NotContains(t, headers, "\nBcc:")
	assert.Equal(t, []string{"member@example.com"}, m.GetHeader("To"))
	assert.Empty(t, m.GetHeader("Bcc"))
}

func TestBuildMessage_EncodesNonASCIISubject(t *testing.T) {
	m := buildMessage("noreply@example.com", Email{
		To:       "member@example.com",
		Subject:  "התראה דחופה",
		TextBody: "גוף",
		HTMLBody: "<p>גוף</p>",
	})

	headers := renderHeaders(t, m)
	assert.Contains(t, headers, "Subject: =?UTF-8?q?")
	assert.NotContains(t, headers, "התראה")
}

func TestSMTPNotifier_Send(t *testing.T) {
	var sent []*gomail.Message
	n := &SMTPNotifier{cfg: SMTPConfig{From: "noreply@example.com"}, send: func(m *gomail.Message) error {
		sent = append(sent, m)
		return nil
	}}

	require.NoError(t, n.Send(context.Background(), Email{To: "a@example.com", Subject: "Hi", TextBody: "x"}))
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"noreply@example.com"}, sent[0].GetHeader("From"))

	assert.ErrorIs(t, n.Send(context.Background(), Email{Subject: "Hi"}), ErrNoRecipient)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, Email{To: "a@example.com"}), context.Canceled)
	assert.Len(t, sent, 1)
}

func TestSMTPNotifier_SendFailureWrapsError(t *testing.T) {
	boom := errors.New("relay down")
	n := &SMTPNotifier{send: func(*gomail.Message) error { return boom }}

	err := n.Send(context.Background(), Email{To: "a@example.com", TextBody: "x"})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "a@example.com")
}
