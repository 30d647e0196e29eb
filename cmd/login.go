// ABOUTME: Login command for the lexibridge CLI
// ABOUTME: Authenticates with the backend and persists the session

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/lexibridge/lexibridge-cli/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the LexiBridge backend",
	Long: `Authenticate with email and password and store the session locally.

Credentials can be passed as flags for scripting; when either is missing
an interactive prompt asks for it.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runLogin(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted when omitted)")
}

// runLogin executes the login flow and returns exit code
func runLogin(ctx context.Context, w io.Writer) int {
	if err := promptCredentials(&loginEmail, &loginPassword); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	store := newSession()
	api := newClient(cfg, store)

	identity, err := store.Login(ctx, api, loginEmail, loginPassword)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatIdentityJSON(identity))
	} else {
		fmt.Fprintf(w, "Logged in as %s (%s)\n", identity.FullName, identity.Email)
	}
	return exitOK
}

// promptCredentials asks for whichever of email and password is missing
func promptCredentials(email, password *string) error {
	var fields []huh.Field
	if *email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(email))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// formatIdentityJSON renders an identity for --json output
func formatIdentityJSON(id *session.Identity) string {
	data, _ := json.MarshalIndent(id, "", "  ")
	return string(data)
}
