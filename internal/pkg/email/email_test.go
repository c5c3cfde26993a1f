package email

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendWithoutCredentialsLogs(t *testing.T) {
	var buf bytes.Buffer
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587}, zerolog.New(&buf))

	require.NoError(t, m.Send(Message{To: "a@b.co", Subject: "Hi", HTML: "<p>x</p>"}))
	assert.Contains(t, buf.String(), "email not sent")
	assert.Contains(t, buf.String(), "a@b.co")
}

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("noreply@alumniconnect.local", Message{To: "a@b.co", Subject: "Hi\r\nBcc: x@y.z", HTML: "<p>x</p>"}))
	assert.Contains(t, raw, "Subject: HiBcc: x@y.z\r\n")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8\r\n\r\n<p>x</p>")
}

func TestTemplates(t *testing.T) {
	w := WelcomeMessage("a@b.co", "<Ayse>", "http://app/student/dashboard")
	assert.Equal(t, "a@b.co", w.To)
	assert.Contains(t, w.HTML, "&lt;Ayse&gt;")

	s := SessionAcceptedMessage("a@b.co", "Ayse", "Mehmet", "Career", time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC), "https://meet.example/abc")
	assert.Contains(t, s.HTML, "Mehmet accepted your session <strong>Career</strong>")
	assert.Contains(t, s.HTML, "https://meet.example/abc")
}
