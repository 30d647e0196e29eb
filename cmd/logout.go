// ABOUTME: Logout command for the lexibridge CLI
// ABOUTME: Clears the stored session and document pointer

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitOnError(runLogout(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears local state; safe to run when already logged out
func runLogout(w io.Writer) int {
	store := newSession()
	wasLoggedIn := store.IsAuthenticated()
	store.Logout()

	if err := newRecentDocs().Clear(); err != nil {
		fmt.Fprintf(w, "Warning: could not clear recent documents: %v\n", err)
	}

	if wasLoggedIn {
		fmt.Fprintln(w, "Logged out.")
	} else {
		fmt.Fprintln(w, "No active session.")
	}
	return exitOK
}
