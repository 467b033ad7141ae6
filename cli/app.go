// ABOUTME: Root cobra command and shared application wiring for the CLI
// ABOUTME: Loads config, opens the database, and builds domain services once per invocation
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/harperreed/voss/config"
	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/drafts"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/triage"
)

// App holds everything commands need. Fields left nil are built from Config
// before the first command runs; tests inject them directly.
type App struct {
	ConfigFile string
	Config     *config.Config
	Logger     *slog.Logger
	Database   *db.DB
	CRM        *crm.Service
	Feed       *triage.Service
	FollowUps  *followups.Manager
	Location   *time.Location
	Now        func() time.Time

	ownsDB bool
}

// NewRootCmd creates the top-level "voss" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "voss",
		Short:         "Relationship CRM with an action feed",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return app.Close()
		},
	}
	root.PersistentFlags().StringVar(&app.ConfigFile, "config", "", "Config file (default $XDG_CONFIG_HOME/voss/config.yaml)")

	root.AddCommand(
		newFeedCmd(app),
		newFollowUpsCmd(app),
		newContactsCmd(app),
		newCompaniesCmd(app),
		newInteractionsCmd(app),
		newDealsCmd(app),
		newImportCmd(app),
		newSyncCmd(app),
		newDigestCmd(app),
		newRemindCmd(app),
		newDraftCmd(app),
		newServeCmd(app, version),
		newMCPCmd(app, version),
		newTUICmd(app),
		newTokenCmd(app),
	)
	return root
}

func (a *App) setup() error {
	if a.Config == nil {
		cfg, err := config.Load(a.ConfigFile)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.Logger == nil {
		a.Logger = logging.New(os.Stderr, a.Config.Log.Level, a.Config.Log.Format)
	}
	if a.Now == nil {
		a.Now = time.Now
	}

	th, err := a.Config.Thresholds()
	if err != nil {
		return err
	}
	if a.Location == nil {
		a.Location = th.Location
	}

	if a.Database == nil {
		database, err := db.OpenDatabase(a.Config.DatabaseTarget())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.Database = database
		a.ownsDB = true
	}

	if a.CRM == nil {
		a.CRM = crm.NewService(a.Database, a.Config.Contacts.PhoneRegion, a.Logger)
	}
	if a.Feed == nil {
		engine, err := triage.NewEngine(th)
		if err != nil {
			return err
		}
		a.Feed = triage.NewService(db.NewSnapshotLoader(a.Database), engine, a.Logger)
	}
	if a.FollowUps == nil {
		a.FollowUps = followups.NewSQLManager(a.Database.Conn(),
			followups.WithLocation(a.Location),
			followups.WithLogger(a.Logger),
		)
	}
	return nil
}

// Close releases the database when the App opened it.
func (a *App) Close() error {
	if a.ownsDB && a.Database != nil {
		err := a.Database.Close()
		a.Database = nil
		a.ownsDB = false
		return err
	}
	return nil
}

func (a *App) drafts() *drafts.Service {
	client := drafts.NewAnthropicClient(drafts.ClientConfig{
		APIKey:    a.Config.Drafts.APIKey,
		BaseURL:   a.Config.Drafts.BaseURL,
		Model:     a.Config.Drafts.Model,
		MaxTokens: a.Config.Drafts.MaxTokens,
		Timeout:   a.Config.Drafts.Timeout,
	})
	return drafts.NewService(a.Database.Conn(), client, a.Logger)
}

func (a *App) today() string {
	return a.Now().In(a.Location).Format("2006-01-02")
}
