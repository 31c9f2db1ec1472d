package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"CoinSentry/internal/domain/models"
	drepo "CoinSentry/internal/domain/repository"
	"CoinSentry/pkg/logger"
)

// SMTPNotifier delivers HTML reports over SMTP. Missing credentials or
// recipient make Send a configuration-incomplete no-op, never an error.
type SMTPNotifier struct {
	server     string
	port       int
	user       string
	password   string
	recipient  string
	senderName string
	timeout    time.Duration
	log        *logger.Logger
}

// Config holds SMTP transport settings.
type Config struct {
	Server     string
	Port       int
	User       string
	Password   string
	Recipient  string
	SenderName string
	Timeout    time.Duration
}

// New creates an SMTP notifier.
func New(cfg Config, log *logger.Logger) drepo.Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	senderName := cfg.SenderName
	if senderName == "" {
		senderName = cfg.User
	}
	return &SMTPNotifier{
		server:     cfg.Server,
		port:       cfg.Port,
		user:       cfg.User,
		password:   cfg.Password,
		recipient:  cfg.Recipient,
		senderName: senderName,
		timeout:    timeout,
		log:        log,
	}
}

// Configured reports whether the transport has everything it needs.
func (n *SMTPNotifier) Configured() bool {
	return n.user != "" && n.password != "" && n.recipient != ""
}

// Send delivers an HTML message. Port 587 upgrades the session with
// STARTTLS before authenticating.
func (n *SMTPNotifier) Send(ctx context.Context, subject, htmlBody string) models.SendOutcome {
	if !n.Configured() {
		if n.log != nil {
			n.log.Warn("smtp or recipient not configured, skipping send")
		}
		return models.SendOutcome{Sent: false, Detail: "smtp/recipient not configured"}
	}

	if err := n.send(ctx, subject, htmlBody); err != nil {
		if n.log != nil {
			n.log.Error("email send failed", logger.Error(err))
		}
		return models.SendOutcome{Sent: false, Detail: err.Error()}
	}

	if n.log != nil {
		n.log.Info("email sent", logger.String("recipient", n.recipient))
	}
	return models.SendOutcome{Sent: true, Detail: "ok"}
}

func (n *SMTPNotifier) send(ctx context.Context, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", n.server, n.port)

	d := net.Dialer{Timeout: n.timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	deadline := time.Now().Add(n.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, n.server)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Hello("localhost"); err != nil {
		return fmt.Errorf("smtp hello: %w", err)
	}

	if n.port == 587 {
		if err := client.StartTLS(&tls.Config{ServerName: n.server}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", n.user, n.password, n.server)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(n.user); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(n.recipient); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(n.message(subject, htmlBody))); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	return client.Quit()
}

func (n *SMTPNotifier) message(subject, htmlBody string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: %s <%s>\r\n", n.senderName, n.user))
	b.WriteString(fmt.Sprintf("To: %s\r\n", n.recipient))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")
	return b.String()
}
