package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"pagewatch/internal/common"
	"pagewatch/internal/config"
	"pagewatch/internal/models"
)

// EmailNotifier sends change notifications over SMTP with implicit TLS.
type EmailNotifier struct {
	cfg       config.EmailConfig
	tlsConfig *tls.Config
	logger    zerolog.Logger
}

// NewEmailNotifier creates an email notifier from SMTP configuration.
func NewEmailNotifier(cfg config.EmailConfig, logger zerolog.Logger) (*EmailNotifier, error) {
	if cfg.SMTPHost == "" {
		return nil, common.NewConfigurationError("notification_config", "email.smtp_host", "SMTP host is required")
	}
	if cfg.FromAddress == "" || len(cfg.ToAddresses) == 0 {
		return nil, common.NewConfigurationError("notification_config", "email", "from_address and to_addresses are required")
	}

	return &EmailNotifier{
		cfg:    cfg,
		logger: logger.With().Str("component", "EmailNotifier").Logger(),
	}, nil
}

// Name identifies this channel in dispatch logs.
func (n *EmailNotifier) Name() string {
	return "email"
}

// VerifyConnection checks that the SMTP server accepts the configured
// credentials. Used at startup as a warn-only preflight.
func (n *EmailNotifier) VerifyConnection(ctx context.Context) error {
	client, err := n.dial(ctx)
	if err != nil {
		return err
	}
	return client.Quit()
}

// Notify sends the formatted change message to all configured recipients.
func (n *EmailNotifier) Notify(ctx context.Context, event models.ChangeEvent) error {
	client, err := n.dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Quit() }()

	if err := client.Mail(n.cfg.FromAddress); err != nil {
		return common.WrapError(err, "SMTP MAIL FROM failed")
	}
	for _, recipient := range n.cfg.ToAddresses {
		if err := client.Rcpt(recipient); err != nil {
			return common.WrapErrorf(err, "SMTP RCPT TO failed for %s", recipient)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return common.WrapError(err, "SMTP DATA failed")
	}
	if _, err := writer.Write([]byte(n.buildMessage(event))); err != nil {
		_ = writer.Close()
		return common.WrapError(err, "writing email body")
	}
	if err := writer.Close(); err != nil {
		return common.WrapError(err, "finishing email body")
	}

	n.logger.Debug().
		Str("target", event.TargetName).
		Int("recipients", len(n.cfg.ToAddresses)).
		Msg("Email notification delivered")
	return nil
}

// dial opens a TLS connection to the SMTP server and authenticates. The
// ctx deadline is applied to the connection itself, so a server that hangs
// mid-conversation cannot stall delivery past the deadline.
func (n *EmailNotifier) dial(ctx context.Context) (*smtp.Client, error) {
	addr := fmt.Sprintf("%s:%d", n.cfg.SMTPHost, n.cfg.SMTPPort)

	dialer := &tls.Dialer{NetDialer: &net.Dialer{}, Config: n.tlsConfig}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, common.WrapErrorf(err, "connecting to SMTP server %s", addr)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, n.cfg.SMTPHost)
	if err != nil {
		_ = conn.Close()
		return nil, common.WrapError(err, "starting SMTP session")
	}

	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.SMTPHost)
		if err := client.Auth(auth); err != nil {
			_ = client.Close()
			return nil, common.WrapError(err, "SMTP authentication failed")
		}
	}

	return client, nil
}

// buildMessage assembles RFC 5322 headers plus the formatted body.
func (n *EmailNotifier) buildMessage(event models.ChangeEvent) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "From: %s\r\n", n.cfg.FromAddress)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(n.cfg.ToAddresses, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", FormatSubject(event))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(FormatBody(event), "\n", "\r\n"))

	return sb.String()
}
