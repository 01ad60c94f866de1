package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/directory"
)

var checkDirectoryCmd = &cobra.Command{
	Use:   "check-directory <file>",
	Short: "Validate a user and cycle directory file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckDirectory,
}

func init() {
	rootCmd.AddCommand(checkDirectoryCmd)
}

func runCheckDirectory(cmd *cobra.Command, args []string) error {
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	dir, err := directory.Load(args[0], passwords)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	users := dir.Users()
	cycles := dir.Cycles()

	_, _ = fmt.Fprintf(out, "Directory %s is valid\n", args[0])
	_, _ = fmt.Fprintf(out, "Users (%d):\n", len(users))
	for _, u := range users {
		_, _ = fmt.Fprintf(out, "  %-12s %-12s %s\n", u.ID, u.Role, u.Name)
	}
	_, _ = fmt.Fprintf(out, "Cycles (%d):\n", len(cycles))
	for _, c := range cycles {
		_, _ = fmt.Fprintf(out, "  %-4d %-8s %s (%s to %s)\n", c.ID, c.Status, c.Name, c.StartDate, c.EndDate)
	}
	return nil
}
