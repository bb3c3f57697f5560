// Package cli implements the mailerctl command tree: authentication,
// contacts, lists, templates, campaigns, delivery monitoring, and usage.
// Commands are thin wrappers over the API client; all state lives in the
// session cache and on the server.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ignite/mailerctl/internal/config"
	"github.com/ignite/mailerctl/internal/mailer"
	"github.com/ignite/mailerctl/internal/session"
)

var (
	cfgPath     string
	apiURL      string
	workspaceID string
	jsonOut     bool
)

var rootCmd = &cobra.Command{
	Use:   "mailerctl",
	Short: "Admin console for the mailer platform",
	Long: `mailerctl is the command-line console for the mailer platform.

It manages contacts, mailing lists, templates, and campaigns in your
workspace, monitors delivery, and reports plan usage.

Quick start:
  mailerctl login --email you@example.com     # Sign in and cache the token
  mailerctl contacts list                     # Browse contacts
  mailerctl campaigns send <id>               # Send a draft campaign

Credentials are cached locally for seven days. When the server rejects the
token, the cache is cleared and you are asked to log in again.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and maps errors to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: OS config dir mailerctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides config and MAILER_API_URL)")
	rootCmd.PersistentFlags().StringVar(&workspaceID, "workspace", "", "Workspace ID to operate in (persists as the active workspace)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print raw JSON instead of tables")
}

// app bundles the pieces every command needs.
type app struct {
	cfg    *config.Config
	sess   *session.Store
	client *mailer.Client
}

// newApp loads config, opens the session cache, and builds the API client.
func newApp() (*app, error) {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadFromEnv(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}

	sessionPath := cfg.Session.Path
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate session cache: %w", err)
		}
	}
	sess := session.NewStore(session.NewFileStore(sessionPath))
	if workspaceID != "" {
		sess.SetWorkspaceID(workspaceID)
	}

	policy := mailer.ClearSessionOnAuthFailure
	if cfg.API.ExpiryPolicy == "keep" {
		policy = mailer.KeepSessionOnAuthFailure
	}

	client := mailer.NewClient(sess, mailer.Options{
		BaseURL:      cfg.API.BaseURL,
		Timeout:      cfg.API.Timeout(),
		ExpiryPolicy: policy,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, warnStyle.Render("Session expired. Run `mailerctl login` to sign in again."))
		},
	})

	return &app{cfg: cfg, sess: sess, client: client}, nil
}

// authedApp is newApp plus a fail-fast check that a token is cached, so
// commands that need auth report a clear error before touching the network.
func authedApp() (*app, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if !a.sess.Authorized() {
		return nil, errors.New("not signed in: run `mailerctl login` first")
	}
	return a, nil
}

// printError renders an error with validation details when the server
// supplied them.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
	if apiErr, ok := mailer.AsAPIError(err); ok && apiErr.IsValidation() {
		for field, messages := range apiErr.Errors {
			for _, msg := range messages {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
		}
	}
}
