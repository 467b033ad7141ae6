package triage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
	"github.com/harperreed/voss/triage"
)

func newService(t *testing.T, database *db.DB) *triage.Service {
	t.Helper()
	return triage.NewService(db.NewSnapshotLoader(database), newEngine(t), nil)
}

type brokenLoader struct{ err error }

func (l brokenLoader) LoadSnapshot(context.Context) (*models.Snapshot, error) { return nil, l.err }

func TestActionFeedFailsWholeWhenLoadFails(t *testing.T) {
	cause := errors.New("connection refused")
	svc := triage.NewService(brokenLoader{err: cause}, newEngine(t), nil)

	feed, err := svc.ActionFeed(context.Background(), testutil.AsOf)
	assert.Nil(t, feed)
	var unavailable *models.DataUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, cause)
}

func TestActionFeedFailsOnClosedDatabase(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := newService(t, database)
	require.NoError(t, database.Close())

	feed, err := svc.ActionFeed(context.Background(), testutil.AsOf)
	assert.Nil(t, feed)
	assert.True(t, models.IsDataUnavailable(err))
}

func TestCompletedFollowUpDropsOutOfFeed(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newService(t, database)
	manager := followups.NewSQLManager(database.Conn())

	contact := testutil.InsertContact(t, database, testutil.NewContact())
	fu := testutil.InsertFollowUp(t, database, testutil.NewFollowUp(contact.ID, "2024-01-10"))

	feed, err := svc.ActionFeed(ctx, testutil.AsOf)
	require.NoError(t, err)
	require.Len(t, feed.ActionRequired.OverdueFollowUps, 1)
	assert.Equal(t, fu.ID, feed.ActionRequired.OverdueFollowUps[0].FollowUpID)

	_, err = manager.Complete(ctx, fu.ID, testutil.AsOf)
	require.NoError(t, err)

	feed, err = svc.ActionFeed(ctx, testutil.AsOf)
	require.NoError(t, err)
	assert.Empty(t, feed.ActionRequired.OverdueFollowUps)
	assert.Empty(t, feed.ActionRequired.DueToday)
}

func TestNewContactMovesToInboundRecent(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newService(t, database)

	contact := testutil.InsertContact(t, database, testutil.NewContact())

	feed, err := svc.ActionFeed(ctx, testutil.AsOf)
	require.NoError(t, err)
	require.Len(t, feed.ReadyToReachOut.NewContacts, 1)
	assert.Equal(t, contact.ID, feed.ReadyToReachOut.NewContacts[0].ContactID)
	assert.Empty(t, feed.Momentum.InboundRecent)

	testutil.InsertInteraction(t, database, testutil.NewInteraction(contact.ID, models.DirectionInbound, testutil.DaysAgo(2)))
	_, err = db.NewContactRepository(database.Conn()).UpdateStage(ctx, contact.ID, models.EngagementActive, testutil.AsOf)
	require.NoError(t, err)

	feed, err = svc.ActionFeed(ctx, testutil.AsOf)
	require.NoError(t, err)
	assert.Empty(t, feed.ReadyToReachOut.NewContacts)
	require.Len(t, feed.Momentum.InboundRecent, 1)
	assert.Equal(t, contact.ID, feed.Momentum.InboundRecent[0].ContactID)
}

func TestWonDealIsNeverStale(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	svc := newService(t, database)

	contact := testutil.InsertContact(t, database, testutil.NewContact())
	deal := testutil.InsertDeal(t, database, testutil.NewDeal(contact.ID,
		testutil.WithDealStage(models.StageProposal), testutil.UpdatedAt(testutil.DaysAgo(20))))

	feed, err := svc.ActionFeed(ctx, testutil.AsOf)
	require.NoError(t, err)
	require.Len(t, feed.AtRisk.StaleDeals, 1)
	assert.Equal(t, deal.ID, feed.AtRisk.StaleDeals[0].DealID)
	assert.Equal(t, 20, feed.AtRisk.StaleDeals[0].DaysStale)

	// Stage change bumps updated_at, so move it back to make sure the stage alone excludes it.
	_, err = db.NewDealRepository(database.Conn()).UpdateStage(ctx, deal.ID, models.StageWon, testutil.DaysAgo(30))
	require.NoError(t, err)

	feed, err = svc.ActionFeed(ctx, testutil.AsOf)
	require.NoError(t, err)
	assert.Empty(t, feed.AtRisk.StaleDeals)
	assert.Zero(t, feed.Stats.DealsInPipeline)
}
