package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/config"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/logging"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
)

// testApp wires an App over an in-memory database with a fixed clock.
func testApp(t *testing.T) (*App, *db.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\nserver:\n  jwt_secret: test-secret\n"), 0o600))
	cfg, err := config.Load(path)
	require.NoError(t, err)

	database := testutil.NewTestDB(t)
	return &App{
		Config:   cfg,
		Logger:   logging.Discard(),
		Database: database,
		Now:      func() time.Time { return testutil.AsOf },
	}, database
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app, "test")
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestFeedJSON(t *testing.T) {
	app, database := testApp(t)
	contact := testutil.InsertContact(t, database, testutil.NewContact())
	testutil.InsertFollowUp(t, database, testutil.NewFollowUp(contact.ID, "2024-01-10"))

	out, err := executeCmd(t, app, "feed", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"overdue_total": 1`)
	assert.Contains(t, out, `"today": "2024-01-15"`)
}

func TestFeedRendersPlainForBuffers(t *testing.T) {
	app, database := testApp(t)
	testutil.InsertContact(t, database, testutil.NewContact(testutil.WithName("Grace", "Hopper")))

	out, err := executeCmd(t, app, "feed")
	require.NoError(t, err)
	assert.Contains(t, out, "READY TO REACH OUT (1)")
	assert.Contains(t, out, "Grace Hopper")
	assert.NotContains(t, out, "\x1b[")
}

func TestContactFollowUpFlow(t *testing.T) {
	app, database := testApp(t)

	out, err := executeCmd(t, app, "contacts", "add", "--first-name", "Ada", "--last-name", "Lovelace", "--email", "ada@example.com", "--company", "Engines")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created contact: Ada Lovelace")

	contacts, err := db.NewContactRepository(database.Conn()).List(context.Background(), db.ContactFilter{Query: "ada"})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	id := contacts[0].ID.String()

	out, err = executeCmd(t, app, "followups", "add", "--contact", id, "--title", "Send deck", "--due", "2024-01-15", "--at", "10:00")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Follow-up scheduled: Send deck (due 2024-01-15)")

	out, err = executeCmd(t, app, "followups", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TODAY (1)")
	assert.Contains(t, out, "2024-01-15 10:00")

	list, err := db.NewFollowUpRepository(database.Conn()).List(context.Background(), db.FollowUpFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	fuID := list[0].ID.String()

	out, err = executeCmd(t, app, "followups", "snooze", fuID, "2024-01-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Snoozed to 2024-01-20")

	_, err = executeCmd(t, app, "followups", "snooze", fuID, "2024-01-01")
	assert.True(t, models.IsValidation(err))

	out, err = executeCmd(t, app, "followups", "complete", fuID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Completed: Send deck")

	_, err = executeCmd(t, app, "followups", "complete", fuID)
	assert.True(t, models.IsInvalidState(err))
}

func TestContactsListAndStage(t *testing.T) {
	app, database := testApp(t)
	c := testutil.InsertContact(t, database, testutil.NewContact(testutil.WithName("Grace", "Hopper")))

	out, err := executeCmd(t, app, "contacts", "stage", c.ID.String(), "active")
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper is now active")

	out, err = executeCmd(t, app, "contacts", "list", "--stage", "active")
	require.NoError(t, err)
	assert.Contains(t, out, "Grace Hopper")

	_, err = executeCmd(t, app, "contacts", "archive", c.ID.String())
	require.NoError(t, err)

	out, err = executeCmd(t, app, "contacts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No contacts found.")
}

func TestDealsAndInteractions(t *testing.T) {
	app, database := testApp(t)
	c := testutil.InsertContact(t, database, testutil.NewContact())

	out, err := executeCmd(t, app, "deals", "add", "--contact", c.ID.String(), "--title", "Pilot", "--value", "12500")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created deal: Pilot [lead] USD 12,500")

	out, err = executeCmd(t, app, "interactions", "log", "--contact", c.ID.String(), "--type", "call", "--direction", "inbound", "--at", "2024-01-14T09:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Logged inbound call at 2024-01-14T09:00:00Z")

	_, err = executeCmd(t, app, "interactions", "log", "--contact", "nope")
	assert.ErrorContains(t, err, "invalid --contact")
}

func TestCompaniesAddRejectsDuplicate(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "companies", "add", "--name", "Acme")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "companies", "add", "--name", "acme")
	assert.True(t, models.IsValidation(err))
}

func TestImportProspects(t *testing.T) {
	app, _ := testApp(t)
	path := filepath.Join(t.TempDir(), "prospects.csv")
	csv := "name,industry,ceo,other_leaders\nAcme,Widgets,Jane Roe (CEO),\"John Doe (CTO)\"\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o600))

	out, err := executeCmd(t, app, "import", "prospects", path)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Processed 1 rows: 1 companies created, 0 skipped (already present), 2 contacts created")
}

func TestDigestPrintsOnceAndRemindPrintsDueReminders(t *testing.T) {
	app, database := testApp(t)
	contact := testutil.InsertContact(t, database, testutil.NewContact())
	testutil.InsertFollowUp(t, database, testutil.NewFollowUp(contact.ID, "2024-01-15", testutil.DueAt("09:00"), testutil.Titled("Call back")))

	out, err := executeCmd(t, app, "digest")
	require.NoError(t, err)
	assert.Contains(t, out, "*Morning Digest*")
	assert.Contains(t, out, "*1 follow-ups due today*")

	out, err = executeCmd(t, app, "digest")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = executeCmd(t, app, "remind")
	require.NoError(t, err)
	assert.Contains(t, out, "*Reminder*: Call back")
}

func TestTokenRequiresSecret(t *testing.T) {
	app, _ := testApp(t)
	out, err := executeCmd(t, app, "token", "--email", "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(out), ".")))

	app.Config.Server.JWTSecret = ""
	_, err = executeCmd(t, app, "token")
	assert.ErrorContains(t, err, "jwt_secret")
}

func TestDraftWithoutAPIKeyFails(t *testing.T) {
	app, database := testApp(t)
	app.Config.Drafts.APIKey = ""
	c := testutil.InsertContact(t, database, testutil.NewContact())

	_, err := executeCmd(t, app, "draft", "--contact", c.ID.String(), "--intent", "Say hi")
	assert.Error(t, err)
}
