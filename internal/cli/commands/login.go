package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/electodo/electodo/internal/api"
	"github.com/electodo/electodo/internal/cli/session"
)

// NewLoginCmd signs in (or, with --signup, creates an account) and stores
// the session token.
func NewLoginCmd() *cobra.Command {
	var signup bool

	cmd := &cobra.Command{
		Use:   "login [email]",
		Short: "Sign in and store a session token",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			email := ""
			if len(args) > 0 {
				email = args[0]
			}
			if email == "" {
				fmt.Print("Email: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					fmt.Printf("Error reading email: %v\n", err)
					os.Exit(1)
				}
				email = strings.TrimSpace(line)
			}
			if email == "" {
				fmt.Println("Email is required")
				os.Exit(1)
			}

			fmt.Print("Password: ")
			passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				fmt.Printf("Error reading password: %v\n", err)
				os.Exit(1)
			}

			client := api.NewClient("")
			var sess *api.Session
			if signup {
				sess, err = client.SignUp(email, string(passwordBytes))
			} else {
				sess, err = client.SignIn(email, string(passwordBytes))
			}
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}

			if err := session.SaveToken(sess.Token); err != nil {
				fmt.Printf("Error storing session: %v\n", err)
				os.Exit(1)
			}

			if signup {
				fmt.Printf("✓ Account created, signed in as %s\n", sess.User.Email)
			} else {
				fmt.Printf("✓ Signed in as %s\n", sess.User.Email)
			}
		},
	}

	cmd.Flags().BoolVar(&signup, "signup", false, "Create a new account instead of signing in")

	return cmd
}

// NewLogoutCmd discards the stored session token.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := session.ClearToken(); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Println("✓ Signed out")
		},
	}
}
