package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/amishk599/careerwatch/internal/secrets"
	"github.com/spf13/cobra"
)

var secretsAccount string

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage the SMTP password in the OS keychain",
	Long: "The keychain is consulted only when SMTP_PASSWORD is not set. The account defaults to\n" +
		"email.keyring_account from the config file.",
}

var secretsSetCmd = &cobra.Command{
	Use:   "set [password]",
	Short: "Store the SMTP password (reads stdin when no argument is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSecretsSet,
}

var secretsDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the stored SMTP password",
	Args:  cobra.NoArgs,
	RunE:  runSecretsDelete,
}

func init() {
	secretsCmd.PersistentFlags().StringVar(&secretsAccount, "account", "", "keyring account (default: email.keyring_account)")
	secretsCmd.AddCommand(secretsSetCmd, secretsDeleteCmd)
	rootCmd.AddCommand(secretsCmd)
}

func resolveAccount() (string, error) {
	if secretsAccount != "" {
		return secretsAccount, nil
	}
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Email.KeyringAccount == "" {
		return "", errors.New("no account: pass --account or set email.keyring_account")
	}
	return cfg.Email.KeyringAccount, nil
}

func runSecretsSet(cmd *cobra.Command, args []string) error {
	account, err := resolveAccount()
	if err != nil {
		return err
	}

	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), "SMTP password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	if err := secrets.SetSMTPPassword(account, password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "stored SMTP password for %s\n", account)
	return nil
}

func runSecretsDelete(cmd *cobra.Command, args []string) error {
	account, err := resolveAccount()
	if err != nil {
		return err
	}
	if err := secrets.DeleteSMTPPassword(account); err != nil {
		return fmt.Errorf("delete password: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted SMTP password for %s\n", account)
	return nil
}
