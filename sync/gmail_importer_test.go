package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
)

type fakeSource struct {
	user     string
	messages map[string]*Message
	order    []string
	query    string
}

func (f *fakeSource) UserEmail(context.Context) (string, error) { return f.user, nil }

func (f *fakeSource) ListMessageIDs(_ context.Context, query string) ([]string, error) {
	f.query = query
	return f.order, nil
}

func (f *fakeSource) GetMessage(_ context.Context, id string) (*Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return m, nil
}

func (f *fakeSource) add(id, from, to, subject, date string) {
	if f.messages == nil {
		f.messages = map[string]*Message{}
	}
	f.messages[id] = &Message{ID: id, ThreadID: "t-" + id, Headers: map[string]string{
		"From": from, "To": to, "Subject": subject, "Date": date,
	}}
	f.order = append(f.order, id)
}

func TestGmailImportDirectionsAndContacts(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	known := testutil.InsertContact(t, database, testutil.NewContact(testutil.WithEmail("ada@analytical.io")))

	src := &fakeSource{user: "me@voss.dev"}
	src.add("m1", "Ada <ADA@analytical.io>", "me@voss.dev", "Re: proposal", "Mon, 8 Jan 2024 10:00:00 +0000")
	src.add("m2", "Me <me@voss.dev>", "Grace Hopper <grace@navy-labs.com>, other@x.com", "Intro call", "Tue, 09 Jan 2024 09:30:00 -0500")
	src.add("m3", "noreply@service.com", "me@voss.dev", "Your receipt", "Tue, 09 Jan 2024 09:30:00 +0000")
	src.add("m4", "Pal <pal@gmail.com>", "me@voss.dev", "Lunch next week?", "Wed, 10 Jan 2024 12:00:00 +0000")
	src.add("m5", "Grace <grace@navy-labs.com>", "me@voss.dev", "Re: Intro call", "Thu, 11 Jan 2024 08:00:00 +0000")
	src.order = append(src.order, "missing")

	imp := NewGmailImporter(database, src, nil)
	res, err := imp.Import(ctx, 14, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, "newer_than:14d -category:promotions", src.query)
	assert.Equal(t, Result{Fetched: 6, Imported: 4, Skipped: 1, Failed: 1, NewContacts: 2}, res)

	interactions := db.NewInteractionRepository(database.Conn())
	got, err := interactions.List(ctx, db.InteractionFilter{ContactID: &known.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.DirectionInbound, got[0].Direction)
	assert.Equal(t, "Re: proposal", got[0].Subject)

	grace, err := db.NewContactRepository(database.Conn()).FindByEmail(ctx, "grace@navy-labs.com")
	require.NoError(t, err)
	assert.Equal(t, "Grace", grace.FirstName)
	assert.Equal(t, "Hopper", grace.LastName)
	assert.Equal(t, models.EngagementNew, grace.EngagementStage)
	assert.Equal(t, "email", grace.InboundChannel)
	require.NotNil(t, grace.CompanyID)
	company, err := db.NewCompanyRepository(database.Conn()).Get(ctx, *grace.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "Navy Labs", company.Name)

	graceMail, err := interactions.List(ctx, db.InteractionFilter{ContactID: &grace.ID})
	require.NoError(t, err)
	require.Len(t, graceMail, 2)
	assert.Equal(t, models.DirectionInbound, graceMail[0].Direction)
	assert.Equal(t, models.DirectionOutbound, graceMail[1].Direction)
	assert.Equal(t, "2024-01-09T14:30:00Z", graceMail[1].OccurredAt.UTC().Format("2006-01-02T15:04:05Z07:00"))

	pal, err := db.NewContactRepository(database.Conn()).FindByEmail(ctx, "pal@gmail.com")
	require.NoError(t, err)
	assert.Nil(t, pal.CompanyID)

	again, err := imp.Import(ctx, 14, testutil.AsOf)
	require.NoError(t, err)
	assert.Zero(t, again.Imported)
	assert.Equal(t, 5, again.Skipped)
}

func TestGmailImportSkipsArchivedContacts(t *testing.T) {
	database := testutil.NewTestDB(t)
	testutil.InsertContact(t, database, testutil.NewContact(testutil.WithEmail("gone@acme.com"), testutil.Archived()))

	src := &fakeSource{user: "me@voss.dev"}
	src.add("m1", "gone@acme.com", "me@voss.dev", "Still here?", "Mon, 8 Jan 2024 10:00:00 +0000")

	res, err := NewGmailImporter(database, src, nil).Import(context.Background(), 0, testutil.AsOf)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Zero(t, res.Imported)
	assert.Equal(t, BuildQuery(DefaultSyncDays), src.query)
}
