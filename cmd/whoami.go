// ABOUTME: Whoami command for the lexibridge CLI
// ABOUTME: Shows the current session identity and token expiry

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var whoamiRemote bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long: `Show the identity stored in the local session.

With --remote the profile is fetched from the backend instead, which also
verifies that the stored token is still accepted.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitOnError(runWhoami(ctx, os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "Fetch the profile from the backend")
}

// runWhoami shows the session identity and returns exit code
func runWhoami(ctx context.Context, w io.Writer) int {
	store := newSession()

	if !store.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in.")
		return exitNoAuth
	}

	if whoamiRemote {
		cfg, err := loadConfig()
		if err != nil {
			return reportError(w, err)
		}
		profile, err := newClient(cfg, store).Profile(ctx)
		if err != nil {
			return reportError(w, err)
		}
		if IsJSONOutput() {
			data, _ := json.MarshalIndent(profile, "", "  ")
			fmt.Fprintln(w, string(data))
		} else {
			fmt.Fprintf(w, "User:  %s\nEmail: %s\n", profile.FullName, profile.Email)
		}
		return exitOK
	}

	identity := store.Identity()

	if IsJSONOutput() {
		out := map[string]any{
			"userId":   identity.UserID,
			"username": identity.Username,
			"email":    identity.Email,
			"fullName": identity.FullName,
		}
		if exp, ok := store.TokenExpiresAt(); ok {
			out["tokenExpiresAt"] = exp.Format(time.RFC3339)
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}

	fmt.Fprintf(w, "User:  %s\nEmail: %s\n", identity.FullName, identity.Email)
	if exp, ok := store.TokenExpiresAt(); ok {
		if time.Now().After(exp) {
			fmt.Fprintf(w, "Token: expired %s\n", humanize.Time(exp))
		} else {
			fmt.Fprintf(w, "Token: expires %s\n", humanize.Time(exp))
		}
	}
	return exitOK
}
