// ABOUTME: Register command for the lexibridge CLI
// ABOUTME: Creates an account and persists the resulting session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a LexiBridge account",
	Long:  `Create an account and log in with it in one step.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runRegister(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted when omitted)")
}

// runRegister executes the registration flow and returns exit code
func runRegister(ctx context.Context, w io.Writer) int {
	if registerName == "" {
		if err := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Full name").Value(&registerName),
		)).Run(); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitUsage
		}
	}
	if err := promptCredentials(&registerEmail, &registerPassword); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	store := newSession()
	api := newClient(cfg, store)

	identity, err := store.Register(ctx, api, registerName, registerEmail, registerPassword)
	if err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatIdentityJSON(identity))
	} else {
		fmt.Fprintf(w, "Account created, logged in as %s (%s)\n", identity.FullName, identity.Email)
	}
	return exitOK
}
