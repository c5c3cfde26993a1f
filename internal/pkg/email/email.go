package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Message is a single outgoing HTML mail
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer sends transactional mail
type Mailer interface {
	Send(msg Message) error
}

// SMTPConfig holds configuration for the SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether credentials are present
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPMailer sends via net/smtp. Without credentials it only logs.
type SMTPMailer struct {
	config SMTPConfig
	logger zerolog.Logger
}

// NewSMTPMailer creates a mailer
func NewSMTPMailer(config SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{config: config, logger: logger}
}

// Send delivers msg or logs it when SMTP is not configured
func (m *SMTPMailer) Send(msg Message) error {
	if !m.config.Configured() {
		m.logger.Warn().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	raw := buildMessage(m.config.From, msg)
	addr := m.config.Host + ":" + strconv.Itoa(m.config.Port)
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	// Port 465 expects implicit TLS; everything else goes through SendMail which upgrades with STARTTLS
	if m.config.Port == 465 {
		if err := m.sendImplicitTLS(addr, auth, msg.To, raw); err != nil {
			m.logger.Error().Err(err).Str("server", addr).Msg("Failed to send email")
			return err
		}
		return nil
	}

	if err := smtp.SendMail(addr, auth, m.config.From, []string{msg.To}, raw); err != nil {
		m.logger.Error().Err(err).Str("server", addr).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) sendImplicitTLS(addr string, auth smtp.Auth, to string, raw []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(m.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(raw); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	return w.Close()
}

func buildMessage(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + strings.NewReplacer("\r", "", "\n", "").Replace(msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
