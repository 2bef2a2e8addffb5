package notifier

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/amishk599/careerwatch/internal/config"
	"github.com/amishk599/careerwatch/internal/model"
)

// Ensure EmailNotifier implements model.Notifier.
var _ model.Notifier = (*EmailNotifier)(nil)

// EmailNotifier sends one plain-text email per run summarizing every new
// listing. It speaks SMTP with STARTTLS and PLAIN authentication.
type EmailNotifier struct {
	settings  func() (config.SMTPConfig, error)
	tlsConfig *tls.Config
	now       func() time.Time
	logger    *slog.Logger
}

// NewEmailNotifier returns an email notifier. settings is resolved lazily on
// each Notify so that missing configuration only matters when there is
// something to send. tlsConfig may be nil.
func NewEmailNotifier(settings func() (config.SMTPConfig, error), tlsConfig *tls.Config, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		settings:  settings,
		tlsConfig: tlsConfig,
		now:       time.Now,
		logger:    logger,
	}
}

// Notify composes and sends a single alert. An empty job list is a no-op.
// The SMTP connection is closed whether or not delivery succeeds.
func (n *EmailNotifier) Notify(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	cfg, err := n.settings()
	if err != nil {
		return fmt.Errorf("email settings: %w", err)
	}

	msg, err := buildMessage(cfg.Sender, cfg.Recipient, composeBody(jobs), n.now())
	if err != nil {
		return fmt.Errorf("building email: %w", err)
	}

	c, err := smtp.Dial(cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", cfg.Addr(), err)
	}
	defer c.Close()

	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if n.tlsConfig != nil {
		tlsCfg = n.tlsConfig.Clone()
	}
	if tlsCfg.ServerName == "" {
		tlsCfg.ServerName = cfg.Server
	}
	if err := c.StartTLS(tlsCfg); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if err := c.Auth(sasl.NewPlainClient("", cfg.Username, cfg.Password)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.SendMail(cfg.Sender, []string{cfg.Recipient}, bytes.NewReader(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	if err := c.Quit(); err != nil {
		return fmt.Errorf("smtp quit: %w", err)
	}

	n.logger.Info("email alert sent", "recipient", cfg.Recipient, "listings", len(jobs))
	return nil
}

// buildMessage renders an RFC 5322 message with a UTF-8 text/plain body.
func buildMessage(from, to, body string, date time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(AlertSubject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, err
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
