package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/classpulse/rollcall/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate against the recognizer and persist the session",
	Long: `Log in to the remote recognition service. The bearer token and the
resolved account email are stored locally; the attendance cache is keyed by
that email, so switching accounts never mixes records.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().String("password", "", "Password (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]
	cfg := config.Load()

	password := mustGetString(cmd, "password")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("could not read password: %w", err)
		}
		password = string(raw)
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closer()

	client, err := openClient(cfg, store)
	if err != nil {
		return err
	}

	if err := client.Login(context.Background(), email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := store.SaveSession(client.Email(), client.Token()); err != nil {
		return fmt.Errorf("could not persist session: %w", err)
	}

	fmt.Printf("Logged in as %s\n", client.Email())
	return nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		store, closer, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closer()

		if err := store.ClearSession(); err != nil {
			return fmt.Errorf("could not clear session: %w", err)
		}
		fmt.Println("Session cleared. Attendance records stay on disk.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
