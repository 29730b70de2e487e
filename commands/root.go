// Package commands provides the cobra commands for the interu CLI.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/interu-app/interu-cli/api"
	"github.com/interu-app/interu-cli/auth"
	"github.com/interu-app/interu-cli/config"
	"github.com/interu-app/interu-cli/notifications"
	"github.com/interu-app/interu-cli/profile"
	"github.com/interu-app/interu-cli/publications"
	"github.com/interu-app/interu-cli/session"
)

// env bundles the configured clients every command needs.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *session.Store
	api     *api.Client
	auth    *auth.Client
	profile *profile.Client
	pubs    *publications.Client
	notifs  *notifications.Client

	out     io.Writer
	jsonOut bool
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	apiURL   string
	logLevel string
	jsonOut  bool
}

// NewRootCommand builds the interu command tree.
func NewRootCommand(version string) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "interu",
		Short: "Client for the InterU university networking platform",
		Long: `interu is the command-line client for the InterU platform: manage your
account and profile, browse the publications feed, and publish skill
exchange offers and demands.

Configuration is layered: defaults, ~/.config/interu/config.yaml, a project
.interu.yaml, then INTERU_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "API base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.jsonOut, "json", false, "Print results as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "interu version %s\n", version)
		},
	})

	cmd.AddCommand(
		newLoginCommand(flags),
		newLogoutCommand(flags),
		newWhoamiCommand(flags),
		newRegisterCommand(flags),
		newActivateCommand(flags),
		newResetPasswordCommand(flags),
		newProfileCommand(flags),
		newPubsCommand(flags),
		newNotificationsCommand(flags),
	)

	return cmd
}

// newEnv loads configuration and wires the clients for one command run.
func newEnv(cmd *cobra.Command, flags *rootFlags) (*env, error) {
	logger := newLogger(flags.logLevel)

	cfg, err := config.NewLoader(logger).Load()
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	} else if cfg.Logging.Level != "" {
		logger = newLogger(cfg.Logging.Level)
	}

	sessionPath := cfg.Session.Path
	if sessionPath == "" {
		sessionPath, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store := session.NewStore(sessionPath)

	apiClient := api.NewClient(cfg.API.BaseURL, store,
		api.WithLogger(logger),
		api.WithHTTPClient(httpClient(cfg.API.Timeout)),
	)
	authClient := auth.NewClient(apiClient, store)

	return &env{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		api:     apiClient,
		auth:    authClient,
		profile: profile.NewClient(apiClient, authClient),
		pubs:    publications.NewClient(apiClient),
		notifs:  notifications.NewClient(apiClient),
		out:     cmd.OutOrStdout(),
		jsonOut: flags.jsonOut,
	}, nil
}

func httpClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel}))
}

// printJSON writes v as indented JSON to the command output.
func (e *env) printJSON(v any) error {
	encoder := json.NewEncoder(e.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// userError maps the error taxonomy to user-facing text. Session-ending
// failures also clear the stored tokens, per the logout-and-redirect
// policy of the resource layer.
func (e *env) userError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, api.ErrSessionExpired):
		_ = e.store.Clear()
		return fmt.Errorf("your session has expired, run 'interu login' again")
	case errors.Is(err, api.ErrUnauthenticated):
		return fmt.Errorf("not logged in, run 'interu login' first")
	case errors.Is(err, api.ErrInvalidCredentials):
		return fmt.Errorf("the password was rejected: %v", err)
	case errors.Is(err, api.ErrForbidden):
		return fmt.Errorf("you are not allowed to modify this resource")
	case api.IsNetworkError(err):
		return fmt.Errorf("cannot reach the InterU API: %v", err)
	}

	if ve, ok := api.AsValidationError(err); ok {
		var sb strings.Builder
		sb.WriteString("the server rejected the request:")
		for field, msgs := range ve.Fields {
			fmt.Fprintf(&sb, "\n  %s: %s", field, strings.Join(msgs, "; "))
		}
		return errors.New(sb.String())
	}

	return err
}

// promptPassword reads a password from stdin when a flag was left empty.
// On a terminal the input is read without echo, so the value stays off the
// screen as well as out of shell history. Piped input falls back to a
// plain line read.
func promptPassword(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read %s: %w", label, err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return line, nil
}
