// ABOUTME: Long-running server commands and API token minting
// ABOUTME: serve (HTTP API), mcp (stdio MCP server), tui (interactive feed), token (JWT)
package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/harperreed/voss/auth"
	"github.com/harperreed/voss/handlers"
	"github.com/harperreed/voss/tui"
	"github.com/harperreed/voss/web"
)

func (a *App) jwt() *auth.JWTManager {
	if a.Config.Server.JWTSecret == "" {
		return nil
	}
	return auth.NewJWTManager(a.Config.Server.JWTSecret, a.Config.Server.TokenTTL)
}

func newServeCmd(app *App, version string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if addr == "" {
				addr = app.Config.Server.Addr
			}
			jwt := app.jwt()
			if jwt == nil {
				app.Logger.Warn("server.jwt_secret is not set; the API is unauthenticated")
			}
			server := web.NewServer(web.Deps{
				Database:  app.Database,
				CRM:       app.CRM,
				Feed:      app.Feed,
				FollowUps: app.FollowUps,
				Drafts:    app.drafts(),
				JWT:       jwt,
				RateLimit: app.Config.Server.RateLimit,
				Location:  app.Location,
				Logger:    app.Logger.With("version", version),
				Now:       app.Now,
			})
			return server.Start(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func newMCPCmd(app *App, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			h := handlers.New(handlers.Deps{
				Database:  app.Database,
				CRM:       app.CRM,
				Feed:      app.Feed,
				FollowUps: app.FollowUps,
				Drafts:    app.drafts(),
				Location:  app.Location,
				Logger:    app.Logger,
				Now:       app.Now,
			})
			app.Logger.Info("starting MCP server", "version", version)
			return handlers.NewServer(h, version).Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the action feed interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(tui.NewModel(cmd.Context(), app.Feed, app.FollowUps, app.Location, app.Now))
		},
	}
}

func newTokenCmd(app *App) *cobra.Command {
	var subject, email string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			jwt := app.jwt()
			if jwt == nil {
				return errors.New("server.jwt_secret is not set")
			}
			token, err := jwt.GenerateToken(subject, email)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "owner", "Token subject")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	return cmd
}
