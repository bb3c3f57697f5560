package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/mailer"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and cache the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		email := loginEmail
		if email == "" {
			email = promptLine("Email: ")
		}
		password := loginPassword
		if password == "" {
			password = promptLine("Password: ")
		}

		result, err := a.client.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}

		wsID := ""
		if result.Workspace != nil {
			wsID = strconv.Itoa(result.Workspace.ID)
		}
		a.sess.SetAuth(result.AccessToken, result.User, wsID)

		fmt.Println(successStyle.Render("Signed in as " + result.User.Email))
		if result.Workspace != nil {
			fmt.Println(dimStyle.Render("Workspace: " + result.Workspace.Name))
		}
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		name := registerName
		if name == "" {
			name = promptLine("Name: ")
		}
		email := registerEmail
		if email == "" {
			email = promptLine("Email: ")
		}
		password := registerPassword
		if password == "" {
			password = promptLine("Password: ")
		}

		result, err := a.client.Register(cmd.Context(), mailer.RegisterInput{
			Name:                 name,
			Email:                email,
			Password:             password,
			PasswordConfirmation: password,
		})
		if err != nil {
			return err
		}

		wsID := ""
		if result.Workspace != nil {
			wsID = strconv.Itoa(result.Workspace.ID)
		}
		a.sess.SetAuth(result.AccessToken, result.User, wsID)

		fmt.Println(successStyle.Render("Account created: " + result.User.Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the cached token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if !a.sess.Authorized() {
			fmt.Println(dimStyle.Render("Already signed out."))
			return nil
		}

		// Best effort: the local cache is cleared even when revocation fails.
		if err := a.client.Logout(cmd.Context()); err != nil {
			fmt.Fprintln(os.Stderr, dimStyle.Render("Server-side logout failed; clearing local session anyway."))
		}
		a.sess.Logout()
		fmt.Println(successStyle.Render("Signed out."))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user and active workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := authedApp()
		if err != nil {
			return err
		}

		user, err := a.client.Me(cmd.Context())
		if err != nil {
			return err
		}
		a.sess.SetUser(*user)

		if jsonOut {
			return printJSON(map[string]any{
				"user":         user,
				"workspace_id": a.sess.WorkspaceID(),
			})
		}
		fmt.Printf("%s %s <%s>\n", titleStyle.Render("User:"), user.Name, user.Email)
		if ws := a.sess.WorkspaceID(); ws != "" {
			fmt.Printf("%s %s\n", titleStyle.Render("Workspace:"), ws)
		}
		return nil
	},
}

// One shared reader: a per-prompt Scanner would buffer past the first line.
var stdin = bufio.NewReader(os.Stdin)

func promptLine(label string) string {
	fmt.Print(label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password (prompted if omitted)")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password (prompted if omitted)")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}
