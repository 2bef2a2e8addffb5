package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups careerwatch secrets in the OS keychain.
const KeyringService = "careerwatch"

// ErrNoAccount is returned when no keyring account is configured.
var ErrNoAccount = errors.New("keyring account name is empty")

// SMTPPassword reads the SMTP password stored for account.
func SMTPPassword(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", ErrNoAccount
	}
	pw, err := keyring.Get(KeyringService, account)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pw) == "" {
		return "", errors.New("SMTP password in keyring is empty")
	}
	return pw, nil
}

// SetSMTPPassword stores password for account, replacing any existing value.
func SetSMTPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return ErrNoAccount
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, account, password)
}

// DeleteSMTPPassword removes the stored password for account.
func DeleteSMTPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return ErrNoAccount
	}
	return keyring.Delete(KeyringService, account)
}

// PasswordSource returns a lookup suitable for config.SMTPFromEnv, or nil
// when no account is configured.
func PasswordSource(account string) func() (string, error) {
	if strings.TrimSpace(account) == "" {
		return nil
	}
	return func() (string, error) { return SMTPPassword(account) }
}
