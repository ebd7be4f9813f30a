package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"processgpt/internal/auth"
)

var userRole string

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long: `Manage user accounts. Accounts are only ever created through this
command by an operator; no default credentials are seeded at startup.`,
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Create a user account (prompts for a password)",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE:  runUserList,
}

func init() {
	userAddCmd.Flags().StringVar(&userRole, "role", "", "account role: agent or trainer")
	userAddCmd.MarkFlagRequired("role")
	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	password, err := promptPassword(cmd)
	if err != nil {
		return err
	}

	store, err := auth.Open(cfg.UsersDB)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Create(args[0], password, userRole); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %q.\n", userRole, args[0])
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	store, err := auth.Open(cfg.UsersDB)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.List()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users found.")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.Username, u.Role)
	}
	return nil
}

func promptPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("user add requires an interactive terminal for the password prompt")
	}

	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	fmt.Fprint(cmd.OutOrStdout(), "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
