package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

// Environment variables holding the SMTP settings. All are required to send.
const (
	EnvSMTPSender    = "SMTP_SENDER"
	EnvSMTPRecipient = "SMTP_RECIPIENT"
	EnvSMTPServer    = "SMTP_SERVER"
	EnvSMTPPort      = "SMTP_PORT"
	EnvSMTPUsername  = "SMTP_USERNAME"
	EnvSMTPPassword  = "SMTP_PASSWORD"
)

// SMTPConfig is everything the email notifier needs to deliver an alert.
type SMTPConfig struct {
	Sender    string
	Recipient string
	Server    string
	Port      int
	Username  string
	Password  string
}

// Addr returns host:port.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}

// SMTPFromEnv reads SMTPConfig through lookup (normally os.LookupEnv).
// When SMTP_PASSWORD is unset and password is non-nil, password is consulted
// instead. Every missing variable is reported in a single *model.ConfigError.
func SMTPFromEnv(lookup func(string) (string, bool), password func() (string, error)) (SMTPConfig, error) {
	var missing []string
	get := func(key string) string {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := SMTPConfig{
		Sender:    get(EnvSMTPSender),
		Recipient: get(EnvSMTPRecipient),
		Server:    get(EnvSMTPServer),
	}
	rawPort := get(EnvSMTPPort)
	cfg.Username = get(EnvSMTPUsername)

	if v, ok := lookup(EnvSMTPPassword); ok && v != "" {
		cfg.Password = v
	} else if password != nil {
		pw, err := password()
		if err != nil || pw == "" {
			missing = append(missing, EnvSMTPPassword)
		}
		cfg.Password = pw
	} else {
		missing = append(missing, EnvSMTPPassword)
	}

	if len(missing) > 0 {
		return SMTPConfig{}, &model.ConfigError{Missing: missing}
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return SMTPConfig{}, fmt.Errorf("%s must be numeric, got %q", EnvSMTPPort, rawPort)
	}
	if port <= 0 || port > 65535 {
		return SMTPConfig{}, fmt.Errorf("%s must be 1..65535, got %d", EnvSMTPPort, port)
	}
	cfg.Port = port

	return cfg, nil
}
