// ABOUTME: Google sync CLI commands
// ABOUTME: Handles OAuth setup and the Gmail interaction import
package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/harperreed/voss/sync"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import activity from Google",
	}
	cmd.AddCommand(newSyncInitCmd(app), newSyncGmailCmd(app))
	return cmd
}

func newSyncInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Authorize read-only Gmail access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sync.NewOAuthConfig(app.Config.Google)
			if err != nil {
				return err
			}
			token, err := authorize(cmd.Context(), cfg, func(authURL string) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Opening browser for Google OAuth...")
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
				_ = openBrowser(authURL)
			})
			if err != nil {
				return err
			}
			if err := sync.SaveToken(sync.TokenPath(), token); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "✓ Authenticated successfully\n✓ Tokens saved to %s\n", sync.TokenPath())
			return err
		},
	}
}

// authorize runs the loopback OAuth flow on the redirect URL's host and port.
func authorize(ctx context.Context, cfg *oauth2.Config, open func(string)) (*oauth2.Token, error) {
	redirect, err := url.Parse(cfg.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}
	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for OAuth callback: %w", err)
	}

	tokens := make(chan *oauth2.Token, 1)
	errs := make(chan error, 1)
	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errs <- errors.New("no authorization code received")
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}
		token, err := cfg.Exchange(ctx, code)
		if err != nil {
			errs <- fmt.Errorf("failed to exchange code: %w", err)
			http.Error(w, "exchange failed", http.StatusBadGateway)
			return
		}
		tokens <- token
		_, _ = fmt.Fprint(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	open(cfg.AuthCodeURL("state", oauth2.AccessTypeOffline))

	select {
	case token := <-tokens:
		return token, nil
	case err := <-errs:
		return nil, fmt.Errorf("OAuth flow failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newSyncGmailCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Log recent Gmail conversations as interactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sync.NewOAuthConfig(app.Config.Google)
			if err != nil {
				return err
			}
			token, err := sync.LoadToken(sync.TokenPath())
			if err != nil {
				return fmt.Errorf("no authentication token found, run 'voss sync init' first: %w", err)
			}
			source, err := sync.NewGmailSource(cmd.Context(), cfg, token)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("days") {
				days = app.Config.Google.SyncDays
			}
			res, err := sync.NewGmailImporter(app.Database, source, app.Logger).Import(cmd.Context(), days, app.Now())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"✓ Fetched %d messages: %d imported, %d skipped, %d failed, %d new contacts\n",
				res.Fetched, res.Imported, res.Skipped, res.Failed, res.NewContacts)
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", sync.DefaultSyncDays, "How many days of mail to scan")
	return cmd
}

// openBrowser attempts to open URL in default browser
func openBrowser(target string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{target}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", target}
	default:
		cmd = "xdg-open"
		args = []string{target}
	}

	return exec.Command(cmd, args...).Start()
}
