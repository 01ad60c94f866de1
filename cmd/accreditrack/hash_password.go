package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/accreditrack/internal/config"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for a directory file",
	Long: `Hash a password with the configured BCRYPT_COST and PASSWORD_PEPPER.
The output goes in a directory file's password_hash field.`,
	Args: cobra.ExactArgs(1),
	RunE: runHashPassword,
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	hash, err := passwords.HashPassword(args[0])
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), hash)
	return nil
}
